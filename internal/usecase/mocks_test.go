package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-profile-flow/internal/infra/queue"
)

// journal registra a ordem dos efeitos entre repositório, envio e estado.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(e string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// ============ REPOSITÓRIO EM MEMÓRIA ============

type fakeCustomerRepo struct {
	mu        sync.Mutex
	nextID    int64
	customers map[int64]*entity.Customer
	log       *journal

	createErr error
	updateErr error
	listErr   error
}

func newFakeCustomerRepo(log *journal, seed ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: map[int64]*entity.Customer{}, log: log}
	for _, c := range seed {
		if c.ID == 0 {
			r.nextID++
			c.ID = r.nextID
		} else if c.ID > r.nextID {
			r.nextID = c.ID
		}
		c.IsActive = true
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.add("repo:create")
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || !c.IsActive {
		return nil, entity.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) FindActiveByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.PhoneNumber == phone && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, entity.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) ListActive(_ context.Context) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Customer
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.customers[id]; ok && c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) ListMissingProfile(ctx context.Context) ([]*entity.Customer, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	all, _ := r.ListActive(ctx)
	var out []*entity.Customer
	for _, c := range all {
		if c.NeedsProfile() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) UpdateDates(_ context.Context, id int64, dob, doa time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.add("repo:update_dates")
	if r.updateErr != nil {
		return r.updateErr
	}
	c, ok := r.customers[id]
	if !ok || !c.IsActive {
		return entity.ErrCustomerNotFound
	}
	c.DateOfBirth, c.DateOfAnniversary = &dob, &doa
	return nil
}

func (r *fakeCustomerRepo) UpdateName(_ context.Context, id int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.add("repo:update_name")
	if r.updateErr != nil {
		return r.updateErr
	}
	c, ok := r.customers[id]
	if !ok || !c.IsActive {
		return entity.ErrCustomerNotFound
	}
	c.Name = name
	return nil
}

func (r *fakeCustomerRepo) Deactivate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || !c.IsActive {
		return entity.ErrCustomerNotFound
	}
	c.IsActive = false
	return nil
}

func (r *fakeCustomerRepo) byPhone(phone string) *entity.Customer {
	c, _ := r.FindActiveByPhone(context.Background(), phone)
	return c
}

// ============ ESTADO EM MEMÓRIA ============

type fakeStore struct {
	mu     sync.Mutex
	states map[string]entity.ConversationState
	log    *journal

	getErr error
	setErr error
}

func newFakeStore(log *journal) *fakeStore {
	return &fakeStore{states: map[string]entity.ConversationState{}, log: log}
}

func (s *fakeStore) Get(_ context.Context, phone string) (*entity.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	st, ok := s.states[phone]
	if !ok {
		return nil, nil
	}
	cp := st.Clone()
	return &cp, nil
}

func (s *fakeStore) Set(_ context.Context, phone string, state entity.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.add("state:set")
	if s.setErr != nil {
		return s.setErr
	}
	s.states[phone] = state.Clone()
	return nil
}

func (s *fakeStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.add("state:delete")
	delete(s.states, phone)
	return nil
}

func (s *fakeStore) step(phone string) entity.StepID {
	st, _ := s.Get(context.Background(), phone)
	if st == nil {
		return ""
	}
	return st.Step
}

type fakeTriggerSet struct {
	mu   sync.Mutex
	keys map[entity.TriggerKey]bool
}

func newFakeTriggerSet() *fakeTriggerSet {
	return &fakeTriggerSet{keys: map[entity.TriggerKey]bool{}}
}

func (f *fakeTriggerSet) Contains(_ context.Context, k entity.TriggerKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[k], nil
}

func (f *fakeTriggerSet) Add(_ context.Context, k entity.TriggerKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[k] = true
	return nil
}

// ============ GATEWAY ============

type sentMessage struct {
	To      string
	Kind    MessageKind
	Body    string
	Buttons []whatsapp.Button
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	log  *journal
	err  error
}

func (m *fakeMessenger) SendText(_ context.Context, to, body string) (*whatsapp.SendResult, error) {
	return m.record(sentMessage{To: to, Kind: MessageText, Body: body})
}

func (m *fakeMessenger) SendInteractiveButtons(_ context.Context, to, body string, buttons []whatsapp.Button) (*whatsapp.SendResult, error) {
	return m.record(sentMessage{To: to, Kind: MessageButtons, Body: body, Buttons: buttons})
}

func (m *fakeMessenger) record(s sentMessage) (*whatsapp.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.add("send:" + string(s.Kind))
	m.sent = append(m.sent, s)
	if m.err != nil {
		return nil, m.err
	}
	return &whatsapp.SendResult{MessageID: "wamid.test"}, nil
}

func (m *fakeMessenger) bodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.Body)
	}
	return out
}

// MockTemplateMessenger
type MockTemplateMessenger struct {
	mock.Mock
}

func (m *MockTemplateMessenger) SendTemplate(ctx context.Context, input whatsapp.TemplateInput) (*whatsapp.SendResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.SendResult), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProfileCompleted(ctx context.Context, payload queue.ProfileCompletedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockTemplateConfigRepository
type MockTemplateConfigRepository struct {
	mock.Mock
}

func (m *MockTemplateConfigRepository) Create(ctx context.Context, t *entity.TemplateConfig) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateConfigRepository) Update(ctx context.Context, t *entity.TemplateConfig) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateConfigRepository) FindByID(ctx context.Context, id int64) (*entity.TemplateConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TemplateConfig), args.Error(1)
}

func (m *MockTemplateConfigRepository) FindDefault(ctx context.Context) (*entity.TemplateConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TemplateConfig), args.Error(1)
}

func (m *MockTemplateConfigRepository) ListActive(ctx context.Context) ([]*entity.TemplateConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TemplateConfig), args.Error(1)
}

func (m *MockTemplateConfigRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
