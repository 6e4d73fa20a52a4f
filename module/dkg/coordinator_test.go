package dkg_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
	mockdkg "github.com/onflow/mint-node/module/dkg/mock"
	"github.com/onflow/mint-node/module/irrecoverable"
	"github.com/onflow/mint-node/module/metrics"
	"github.com/onflow/mint-node/module/registry"
	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/network/mocknetwork"
	"github.com/onflow/mint-node/utils/unittest"
)

const stallTimeout = time.Minute

type CoordinatorSuite struct {
	suite.Suite

	me        node.Entry
	peers     []node.Entry
	registry  *registry.Registry
	factory   *mockdkg.EngineFactory
	engine    *mockdkg.Engine
	messenger *mocknetwork.Messenger
	consumer  *mockdkg.FinalizationConsumer

	coordinator *dkg.Coordinator
}

func TestCoordinator(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.me = unittest.EntryFixture()
	s.peers = []node.Entry{unittest.EntryFixture(), unittest.EntryFixture()}
	s.registry = registry.New(s.me.Identity, s.me.Address)
	s.factory = mockdkg.NewEngineFactory(s.T())
	s.engine = mockdkg.NewEngine(s.T())
	s.messenger = mocknetwork.NewMessenger(s.T())
	s.consumer = mockdkg.NewFinalizationConsumer(s.T())

	s.coordinator = dkg.NewCoordinator(
		unittest.Logger(),
		s.me.Identity,
		s.registry,
		s.factory,
		s.messenger,
		s.consumer,
		metrics.NewNoopCollector(),
		dkg.CoordinatorConfig{StallTimeout: stallTimeout},
	)
}

// registerPeers adds the two peers, bringing the registry to quorum.
func (s *CoordinatorSuite) registerPeers() {
	for _, peer := range s.peers {
		s.registry.Add(peer.Identity, peer.Address)
	}
}

// initiate brings the coordinator to the initiated state with an engine that
// opens with no messages and is not finalized.
func (s *CoordinatorSuite) initiate() {
	s.registerPeers()
	s.factory.On("Initialize", s.me.Identity, 2, s.registry.Identities()).Return(s.engine, nil, nil).Once()
	s.engine.On("IsFinalized").Return(false).Once()
	require.NoError(s.T(), s.coordinator.Initiate(context.Background()))
}

func (s *CoordinatorSuite) addressOf(id node.Identity) node.Address {
	addr, ok := s.registry.Lookup(id)
	require.True(s.T(), ok)
	return addr
}

func (s *CoordinatorSuite) TestInitiateBelowQuorum() {
	s.registry.Add(s.peers[0].Identity, s.peers[0].Address)

	err := s.coordinator.Initiate(context.Background())
	assert.ErrorIs(s.T(), err, dkg.ErrQuorumNotReached)
	assert.False(s.T(), irrecoverable.IsException(err))
	assert.Equal(s.T(), dkg.StateAbsent, s.coordinator.State())
}

// TestInitiate checks the participant set and threshold handed to the engine,
// and that the opening messages reach their targets stamped with the local
// identity.
func (s *CoordinatorSuite) TestInitiate() {
	s.registerPeers()
	participants := s.registry.Identities()
	require.Len(s.T(), participants, 3)

	opening := make([]dkg.MessageAndTarget, 0, len(participants))
	for _, id := range participants {
		opening = append(opening, dkg.MessageAndTarget{
			Target:  id,
			Message: messages.NewDKGMessage(node.ZeroIdentity, unittest.RandomBytes(16)),
		})
	}
	s.factory.On("Initialize", s.me.Identity, 2, participants).Return(s.engine, opening, nil).Once()
	s.engine.On("IsFinalized").Return(false).Once()
	for _, mt := range opening {
		expected := messages.NewDKGMessage(s.me.Identity, mt.Message.Data)
		s.messenger.On("Send", mock.Anything, &expected, s.addressOf(mt.Target)).Return(nil).Once()
	}

	require.NoError(s.T(), s.coordinator.Initiate(context.Background()))
	assert.Equal(s.T(), dkg.StateInitiated, s.coordinator.State())
}

func (s *CoordinatorSuite) TestInitiateTwice() {
	s.initiate()

	err := s.coordinator.Initiate(context.Background())
	assert.ErrorIs(s.T(), err, dkg.ErrAlreadyInitiated)
	assert.Equal(s.T(), dkg.StateInitiated, s.coordinator.State())
	s.factory.AssertNumberOfCalls(s.T(), "Initialize", 1)
}

func (s *CoordinatorSuite) TestInitializeFailure() {
	s.registerPeers()
	s.factory.On("Initialize", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, errors.New("bad parameters")).Once()

	err := s.coordinator.Initiate(context.Background())
	assert.True(s.T(), irrecoverable.IsException(err))
	assert.Equal(s.T(), dkg.StateAbsent, s.coordinator.State())
}

// TestHandleBeforeInitiate checks that a DKG message arriving before the
// session exists is reported as such and does not touch the engine.
func (s *CoordinatorSuite) TestHandleBeforeInitiate() {
	msg := unittest.DKGMessageFixture(s.peers[0].Identity)

	err := s.coordinator.Handle(context.Background(), *msg)
	assert.ErrorIs(s.T(), err, dkg.ErrSessionAbsent)
	assert.False(s.T(), irrecoverable.IsException(err))
	assert.Equal(s.T(), dkg.StateAbsent, s.coordinator.State())
}

func (s *CoordinatorSuite) TestHandleDeliversResponses() {
	s.initiate()

	msg := unittest.DKGMessageFixture(s.peers[0].Identity)
	response := dkg.MessageAndTarget{
		Target:  s.peers[1].Identity,
		Message: messages.NewDKGMessage(s.me.Identity, unittest.RandomBytes(8)),
	}
	s.engine.On("HandleMessage", *msg).Return([]dkg.MessageAndTarget{response}, nil).Once()
	s.engine.On("IsFinalized").Return(false).Once()
	s.messenger.On("Send", mock.Anything, &response.Message, s.peers[1].Address).Return(nil).Once()

	require.NoError(s.T(), s.coordinator.Handle(context.Background(), *msg))
	assert.Equal(s.T(), dkg.StateInitiated, s.coordinator.State())
}

// TestFinalization checks that keys are generated exactly once, handed to the
// consumer, and that later messages are recognised as late.
func (s *CoordinatorSuite) TestFinalization() {
	s.initiate()

	keys := &dkg.KeyMaterial{Threshold: 2, Participants: s.registry.Identities()}
	msg := unittest.DKGMessageFixture(s.peers[0].Identity)
	s.engine.On("HandleMessage", *msg).Return(nil, nil).Once()
	s.engine.On("IsFinalized").Return(true).Once()
	s.engine.On("GenerateKeys").Return(keys, nil).Once()
	s.consumer.On("OnDKGFinalized", mock.Anything, keys).Return(nil).Once()

	require.NoError(s.T(), s.coordinator.Handle(context.Background(), *msg))
	assert.Equal(s.T(), dkg.StateFinalized, s.coordinator.State())
	got, ok := s.coordinator.Keys()
	require.True(s.T(), ok)
	assert.Equal(s.T(), keys, got)

	late := unittest.DKGMessageFixture(s.peers[1].Identity)
	err := s.coordinator.Handle(context.Background(), *late)
	assert.ErrorIs(s.T(), err, dkg.ErrSessionFinalized)
	assert.False(s.T(), irrecoverable.IsException(err))

	err = s.coordinator.Initiate(context.Background())
	assert.ErrorIs(s.T(), err, dkg.ErrAlreadyInitiated)
}

func (s *CoordinatorSuite) TestGenerateKeysFailure() {
	s.initiate()

	msg := unittest.DKGMessageFixture(s.peers[0].Identity)
	s.engine.On("HandleMessage", *msg).Return(nil, nil).Once()
	s.engine.On("IsFinalized").Return(true).Once()
	s.engine.On("GenerateKeys").Return(nil, errors.New("inconsistent shares")).Once()

	err := s.coordinator.Handle(context.Background(), *msg)
	assert.True(s.T(), irrecoverable.IsException(err))
	assert.NotEqual(s.T(), dkg.StateFinalized, s.coordinator.State())
}

func (s *CoordinatorSuite) TestEngineRejectsMessage() {
	s.initiate()

	msg := unittest.DKGMessageFixture(s.peers[0].Identity)
	s.engine.On("HandleMessage", *msg).Return(nil, errors.New("invalid share")).Once()

	err := s.coordinator.Handle(context.Background(), *msg)
	require.Error(s.T(), err)
	assert.True(s.T(), irrecoverable.IsException(err))
	assert.Contains(s.T(), err.Error(), s.peers[0].Identity.String())
}

// TestDeliveryFailure checks that every undeliverable target is named in a
// single error, whether its address is unknown or the send failed.
func (s *CoordinatorSuite) TestDeliveryFailure() {
	s.initiate()

	stranger := unittest.IdentityFixture()
	out := []dkg.MessageAndTarget{
		{Target: s.peers[0].Identity, Message: messages.NewDKGMessage(s.me.Identity, []byte{1})},
		{Target: s.peers[1].Identity, Message: messages.NewDKGMessage(s.me.Identity, []byte{2})},
		{Target: stranger, Message: messages.NewDKGMessage(s.me.Identity, []byte{3})},
	}
	msg := unittest.DKGMessageFixture(s.peers[0].Identity)
	s.engine.On("HandleMessage", *msg).Return(out, nil).Once()
	s.messenger.On("Send", mock.Anything, &out[0].Message, s.peers[0].Address).Return(nil).Once()
	s.messenger.On("Send", mock.Anything, &out[1].Message, s.peers[1].Address).
		Return(network.NewUnreachableErr(s.peers[1].Address, 3, errors.New("connection refused"))).Once()

	err := s.coordinator.Handle(context.Background(), *msg)
	require.Error(s.T(), err)
	assert.True(s.T(), irrecoverable.IsException(err))
	assert.True(s.T(), dkg.IsDeliveryError(err))
	assert.ErrorIs(s.T(), err, dkg.ErrUnknownTarget)
	assert.True(s.T(), network.IsErrUnreachable(err))

	var deliveryErr *dkg.DeliveryError
	require.True(s.T(), errors.As(err, &deliveryErr))
	assert.ElementsMatch(s.T(), node.IdentityList{s.peers[1].Identity, stranger}, deliveryErr.Targets())
}

func (s *CoordinatorSuite) TestCheckProgress() {
	// an absent session never stalls
	require.NoError(s.T(), s.coordinator.CheckProgress(time.Now().Add(10*stallTimeout)))

	s.initiate()
	require.NoError(s.T(), s.coordinator.CheckProgress(time.Now()))

	// hear from one peer
	msg := unittest.DKGMessageFixture(s.peers[0].Identity)
	s.engine.On("HandleMessage", *msg).Return(nil, nil).Once()
	s.engine.On("IsFinalized").Return(false).Once()
	require.NoError(s.T(), s.coordinator.Handle(context.Background(), *msg))

	err := s.coordinator.CheckProgress(time.Now().Add(2 * stallTimeout))
	require.Error(s.T(), err)
	assert.True(s.T(), irrecoverable.IsException(err))

	var stalled *dkg.StalledError
	require.True(s.T(), errors.As(err, &stalled))
	assert.ElementsMatch(s.T(), node.IdentityList{s.me.Identity, s.peers[1].Identity}, stalled.Silent())
}

// TestHandleFromNonParticipant checks that a message from a node outside the
// session never reaches the engine and does not count as hearing from anyone.
func (s *CoordinatorSuite) TestHandleFromNonParticipant() {
	s.initiate()

	stranger := unittest.IdentityFixture()
	err := s.coordinator.Handle(context.Background(), *unittest.DKGMessageFixture(stranger))
	assert.ErrorIs(s.T(), err, dkg.ErrNotParticipant)
	assert.False(s.T(), irrecoverable.IsException(err))
	assert.Contains(s.T(), err.Error(), stranger.String())
	s.engine.AssertNotCalled(s.T(), "HandleMessage", mock.Anything)

	err = s.coordinator.CheckProgress(time.Now().Add(2 * stallTimeout))
	var stalled *dkg.StalledError
	require.True(s.T(), errors.As(err, &stalled))
	assert.ElementsMatch(s.T(), s.registry.Identities(), stalled.Silent())
	assert.NotContains(s.T(), stalled.Silent(), stranger)
}

func TestCheckProgressDisabled(t *testing.T) {
	me := unittest.EntryFixture()
	reg := registry.New(me.Identity, me.Address)
	for i := 0; i < 2; i++ {
		peer := unittest.EntryFixture()
		reg.Add(peer.Identity, peer.Address)
	}
	engine := mockdkg.NewEngine(t)
	engine.On("IsFinalized").Return(false)
	factory := mockdkg.NewEngineFactory(t)
	factory.On("Initialize", me.Identity, 2, reg.Identities()).Return(engine, nil, nil)

	c := dkg.NewCoordinator(unittest.Logger(), me.Identity, reg, factory, mocknetwork.NewMessenger(t),
		mockdkg.NewFinalizationConsumer(t), metrics.NewNoopCollector(), dkg.CoordinatorConfig{})
	require.NoError(t, c.Initiate(context.Background()))
	assert.NoError(t, c.CheckProgress(time.Now().Add(24*time.Hour)))
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "absent", dkg.StateAbsent.String())
	assert.Equal(t, "initiated", dkg.StateInitiated.String())
	assert.Equal(t, "finalized", dkg.StateFinalized.String())
	assert.Equal(t, "unknown(7)", dkg.SessionState(7).String())
}

func TestKeyMaterialValidate(t *testing.T) {
	participants := unittest.IdentityListFixture(3)
	valid := func() *dkg.KeyMaterial {
		return &dkg.KeyMaterial{
			Threshold:       2,
			Participants:    participants,
			Index:           1,
			GroupPublicKey:  []byte{1},
			PublicKeyShares: [][]byte{{1}, {2}, {3}},
			SecretKeyShare:  []byte{4},
		}
	}
	require.NoError(t, valid().Validate())

	var missing *dkg.KeyMaterial
	assert.Error(t, missing.Validate())

	k := valid()
	k.Threshold = 3
	assert.Error(t, k.Validate())

	k = valid()
	k.Index = -1
	assert.Error(t, k.Validate())

	k = valid()
	k.PublicKeyShares = k.PublicKeyShares[:2]
	assert.Error(t, k.Validate())

	k = valid()
	k.GroupPublicKey = nil
	assert.Error(t, k.Validate())

	k = valid()
	k.SecretKeyShare = nil
	assert.Error(t, k.Validate())
}
