package workflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// In-memory fakes so engine behavior is tested without a database. They copy
// on the way in and out, like gorm does, so a test only sees mutations that
// went through Update.

type fakeLeaseStore struct {
	mu     sync.Mutex
	nextId int
	leases map[int]models.LeaseAgreement
}

func newFakeLeaseStore() *fakeLeaseStore {
	return &fakeLeaseStore{leases: map[int]models.LeaseAgreement{}}
}

func (s *fakeLeaseStore) Get(ctx context.Context, id int) (*models.LeaseAgreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lease, ok := s.leases[id]
	if !ok {
		return nil, fmt.Errorf("%w: lease agreement %d", utils.ErrorRecordNotFound, id)
	}
	return &lease, nil
}

func (s *fakeLeaseStore) Add(ctx context.Context, lease *models.LeaseAgreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	lease.ID = s.nextId
	s.leases[lease.ID] = *lease
	return nil
}

func (s *fakeLeaseStore) Update(ctx context.Context, lease *models.LeaseAgreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leases[lease.ID]; !ok {
		return fmt.Errorf("%w: lease agreement %d", utils.ErrorRecordNotFound, lease.ID)
	}
	s.leases[lease.ID] = *lease
	return nil
}

func (s *fakeLeaseStore) List(ctx context.Context) ([]*models.LeaseAgreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.LeaseAgreement
	for id := 1; id <= s.nextId; id++ {
		if lease, ok := s.leases[id]; ok {
			leaseCopy := lease
			out = append(out, &leaseCopy)
		}
	}
	return out, nil
}

func (s *fakeLeaseStore) WithSigningLock(ctx context.Context, leaseId int, fn func() error) error {
	return fn()
}

type fakeTemplateStore struct {
	mu        sync.Mutex
	nextId    int
	templates map[int]models.LeaseTemplate
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{templates: map[int]models.LeaseTemplate{}}
}

func (s *fakeTemplateStore) Get(ctx context.Context, id int) (*models.LeaseTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	template, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: lease template %d", utils.ErrorRecordNotFound, id)
	}
	return &template, nil
}

func (s *fakeTemplateStore) ListActive(ctx context.Context) ([]*models.LeaseTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.LeaseTemplate
	for id := 1; id <= s.nextId; id++ {
		if template, ok := s.templates[id]; ok && template.IsActive {
			templateCopy := template
			out = append(out, &templateCopy)
		}
	}
	return out, nil
}

func (s *fakeTemplateStore) Add(ctx context.Context, template *models.LeaseTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	template.ID = s.nextId
	s.templates[template.ID] = *template
	if template.IsDefault {
		s.clearDefaultExcept(template.ID)
	}
	return nil
}

func (s *fakeTemplateStore) Update(ctx context.Context, template *models.LeaseTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[template.ID]; !ok {
		return fmt.Errorf("%w: lease template %d", utils.ErrorRecordNotFound, template.ID)
	}
	s.templates[template.ID] = *template
	if template.IsDefault {
		s.clearDefaultExcept(template.ID)
	}
	return nil
}

func (s *fakeTemplateStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return fmt.Errorf("%w: lease template %d", utils.ErrorRecordNotFound, id)
	}
	delete(s.templates, id)
	return nil
}

func (s *fakeTemplateStore) Default(ctx context.Context) (*models.LeaseTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := 1; id <= s.nextId; id++ {
		if template, ok := s.templates[id]; ok && template.IsDefault && template.IsActive {
			templateCopy := template
			return &templateCopy, nil
		}
	}
	return nil, fmt.Errorf("%w: default lease template", utils.ErrorRecordNotFound)
}

func (s *fakeTemplateStore) clearDefaultExcept(id int) {
	for otherId, other := range s.templates {
		if otherId != id && other.IsDefault {
			other.IsDefault = false
			s.templates[otherId] = other
		}
	}
}

type fakeSignatureStore struct {
	mu         sync.Mutex
	nextId     int
	signatures map[int]models.DigitalSignature // keyed by lease id
}

func newFakeSignatureStore() *fakeSignatureStore {
	return &fakeSignatureStore{signatures: map[int]models.DigitalSignature{}}
}

func (s *fakeSignatureStore) GetByLease(ctx context.Context, leaseId int) (*models.DigitalSignature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	signature, ok := s.signatures[leaseId]
	if !ok {
		return nil, fmt.Errorf("%w: signature for lease %d", utils.ErrorRecordNotFound, leaseId)
	}
	return &signature, nil
}

func (s *fakeSignatureStore) Add(ctx context.Context, signature *models.DigitalSignature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.signatures[signature.LeaseId]; ok {
		return fmt.Errorf("duplicate signature for lease %d", signature.LeaseId)
	}
	s.nextId++
	signature.ID = s.nextId
	s.signatures[signature.LeaseId] = *signature
	return nil
}

type fakeTenantReader struct {
	tenants map[int]*models.Tenant
}

func (s *fakeTenantReader) Get(ctx context.Context, id int) (*models.Tenant, error) {
	tenant, ok := s.tenants[id]
	if !ok {
		return nil, fmt.Errorf("%w: tenant %d", utils.ErrorRecordNotFound, id)
	}
	return tenant, nil
}

type fakeRoomReader struct {
	rooms map[int]*models.Room
}

func (s *fakeRoomReader) Get(ctx context.Context, id int) (*models.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: room %d", utils.ErrorRecordNotFound, id)
	}
	return room, nil
}

// stubRenderer stands in for the document pipeline; echoes the stripped HTML
// so tests can assert on document content.
type stubRenderer struct {
	warning string
	err     error
	calls   int
}

func (r *stubRenderer) Render(ctx context.Context, html string) ([]byte, string, error) {
	r.calls++
	if r.err != nil {
		return nil, "", r.err
	}
	return []byte("%PDF-stub\n" + html), r.warning, nil
}

type recordingNotifier struct {
	sent []int
	err  error
}

func (n *recordingNotifier) LeaseSent(ctx context.Context, lease *models.LeaseAgreement, tenant *models.Tenant) error {
	n.sent = append(n.sent, lease.ID)
	return n.err
}

type testEnv struct {
	leases     *fakeLeaseStore
	templates  *fakeTemplateStore
	signatures *fakeSignatureStore
	storage    *utils.MemoryStorage
	renderer   *stubRenderer
	notifier   *recordingNotifier
	now        time.Time
}

var testClock = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*LeaseEngine, *testEnv) {
	t.Helper()

	env := &testEnv{
		leases:     newFakeLeaseStore(),
		templates:  newFakeTemplateStore(),
		signatures: newFakeSignatureStore(),
		storage:    utils.NewMemoryStorage(),
		renderer:   &stubRenderer{},
		notifier:   &recordingNotifier{},
		now:        testClock,
	}
	tenants := &fakeTenantReader{tenants: map[int]*models.Tenant{
		5: {
			ID:                    5,
			Name:                  "Aung Kyaw",
			Email:                 "aung.kyaw@example.com",
			Phone:                 "+95 9 777 123456",
			EmergencyContactName:  "Su Su",
			EmergencyContactPhone: "+95 9 777 654321",
		},
	}}
	rooms := &fakeRoomReader{rooms: map[int]*models.Room{
		9: {ID: 9, Number: "B-204", Type: "Single with bathroom"},
	}}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := NewLeaseEngine(
		env.leases, env.templates, env.signatures, tenants, rooms,
		env.storage, env.renderer, env.notifier, logger,
	)
	engine.Now = func() time.Time { return env.now }
	return engine, env
}

// addLease seeds a lease directly into the fake store in a given status.
func addLease(t *testing.T, env *testEnv, status models.LeaseStatus) *models.LeaseAgreement {
	t.Helper()
	lease := &models.LeaseAgreement{
		TenantId:          5,
		RoomId:            9,
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:        decimal.NewFromInt(1200),
		RentDueDay:        5,
		Status:            status,
		RequiresSignature: true,
	}
	if status.AtLeast(models.LeaseStatusGenerated) {
		lease.Content = "<html><body>Lease for {{nothing}}</body></html>"
	}
	if err := env.leases.Add(context.Background(), lease); err != nil {
		t.Fatalf("seed lease: %v", err)
	}
	return lease
}

// signaturePayload builds a small valid PNG data URL.
func signaturePayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 16))
	for x := 0; x < 40; x++ {
		img.Set(x, 8, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
