package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
)

func newTestTrigger(repo entity.CustomerRepositoryInterface, store entity.ConversationStore, set entity.TriggerSet, messenger TemplateMessenger) *ProfileTrigger {
	return NewProfileTrigger(repo, store, set, messenger, nil, nil, ProfileTriggerConfig{
		TemplateName: "profile_update",
		LanguageCode: "en_US",
		Parameters:   []string{"Ligue"},
	}, zap.NewNop())
}

func TestProfileTrigger_SendsTemplateOnceAndSeedsState(t *testing.T) {
	dob := time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC)
	repo := newFakeCustomerRepo(nil,
		&entity.Customer{Name: "Ravi", PhoneNumber: "919000000001"},
		&entity.Customer{Name: "Meera", PhoneNumber: "919000000002", DateOfBirth: &dob},
		&entity.Customer{Name: "", PhoneNumber: "919000000003"},
	)
	store := newFakeStore(nil)
	set := newFakeTriggerSet()

	messenger := new(MockTemplateMessenger)
	messenger.On("SendTemplate", mock.Anything, whatsapp.TemplateInput{
		PhoneNumber:  "919000000001",
		TemplateName: "profile_update",
		LanguageCode: "en_US",
		Parameters:   []string{"Ligue"},
	}).Return(&whatsapp.SendResult{MessageID: "wamid.1"}, nil).Once()

	trigger := newTestTrigger(repo, store, set, messenger)

	report, err := trigger.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TriggerReport{Eligible: 1, Sent: 1}, report)

	state, _ := store.Get(context.Background(), "919000000001")
	require.NotNil(t, state)
	assert.Equal(t, entity.StepTemplateSent, state.Step)
	assert.Equal(t, entity.VariantCampaign, state.PendingData[entity.PendingVariant])
	assert.Equal(t, "1", state.PendingData[entity.PendingCustomer])

	// segunda varredura: chave já processada
	report, err = trigger.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TriggerReport{Eligible: 1, Skipped: 1}, report)

	messenger.AssertNumberOfCalls(t, "SendTemplate", 1)
}

func TestProfileTrigger_SkipsPhoneWithConversationInFlight(t *testing.T) {
	repo := newFakeCustomerRepo(nil, &entity.Customer{Name: "Ravi", PhoneNumber: phone})
	store := newFakeStore(nil)
	store.states[phone] = stateAt(entity.StepAwaitingDOB, nil)
	set := newFakeTriggerSet()

	messenger := new(MockTemplateMessenger)
	messenger.On("SendTemplate", mock.Anything, mock.Anything).Return(&whatsapp.SendResult{}, nil)

	trigger := newTestTrigger(repo, store, set, messenger)

	report, err := trigger.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	messenger.AssertNotCalled(t, "SendTemplate", mock.Anything, mock.Anything)
	assert.Equal(t, entity.StepAwaitingDOB, store.step(phone))

	// conversa encerrada: o próximo ciclo dispara
	delete(store.states, phone)
	report, err = trigger.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestProfileTrigger_GatewayFailureMarksProcessed(t *testing.T) {
	repo := newFakeCustomerRepo(nil, &entity.Customer{Name: "Ravi", PhoneNumber: phone})
	store := newFakeStore(nil)
	set := newFakeTriggerSet()

	messenger := new(MockTemplateMessenger)
	messenger.On("SendTemplate", mock.Anything, mock.Anything).Return(nil, &whatsapp.GatewayError{StatusCode: 400, Message: "template not approved"})

	trigger := newTestTrigger(repo, store, set, messenger)

	report, err := trigger.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, entity.StepID(""), store.step(phone))

	done, _ := set.Contains(context.Background(), entity.TriggerKey{PhoneNumber: phone, CustomerID: 1})
	assert.True(t, done)

	report, _ = trigger.Run(context.Background())
	assert.Equal(t, 1, report.Skipped)
	messenger.AssertNumberOfCalls(t, "SendTemplate", 1)
}

func TestProfileTrigger_ListFailureReturnsStoreError(t *testing.T) {
	repo := newFakeCustomerRepo(nil)
	repo.listErr = errors.New("db offline")

	trigger := newTestTrigger(repo, newFakeStore(nil), newFakeTriggerSet(), new(MockTemplateMessenger))

	_, err := trigger.Run(context.Background())
	assert.True(t, IsStoreError(err))
}

func TestProfileTrigger_ThenConversationCompletes(t *testing.T) {
	repo := newFakeCustomerRepo(nil, &entity.Customer{Name: "Ravi", PhoneNumber: phone})
	store := newFakeStore(nil)
	locker := NewPhoneLocker()

	messenger := new(MockTemplateMessenger)
	messenger.On("SendTemplate", mock.Anything, mock.Anything).Return(&whatsapp.SendResult{}, nil)

	trigger := NewProfileTrigger(repo, store, newFakeTriggerSet(), messenger, locker, nil,
		ProfileTriggerConfig{TemplateName: "profile_update"}, zap.NewNop())
	_, err := trigger.Run(context.Background())
	require.NoError(t, err)

	chat := &fakeMessenger{}
	engine := NewEngine(FlowRules{}, store, nil, repo, chat, nil, nil, locker, zap.NewNop())
	for _, in := range []InboundMessage{textMsg("hi"), textMsg("1988-01-02"), textMsg("2012-12-12"), textMsg("no")} {
		require.NoError(t, engine.Handle(context.Background(), in))
	}

	saved := repo.byPhone(phone)
	require.NotNil(t, saved)
	assert.False(t, saved.NeedsProfile())
	assert.Equal(t, "Ravi", saved.Name)
	assert.Equal(t, []string{MsgAskDOB, MsgAskDOA, NameConfirmationPrompt("Ravi"), MsgCompleted}, chat.bodies())
}
