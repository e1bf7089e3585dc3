package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"backend/internal/gateway"
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes for the repository and gateway interfaces. They hold state
// behind a mutex so the concurrency tests can hammer them from goroutines.

// errNotFound wraps the gorm sentinel the way a repository that annotates its
// errors would, so every not-found branch in the services must match it with
// errors.Is rather than equality.
var errNotFound = fmt.Errorf("record lookup: %w", gorm.ErrRecordNotFound)

type fakeTxManager struct {
	mu      sync.Mutex
	runs    int
	failErr error
}

// RunInTx serializes callers the way row locks serialize real transactions.
// When failErr is set the callback still runs but the "commit" fails, which
// lets tests assert that callers discard partial results.
func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.failErr
}

// --- gateway ---

type fakeGateway struct {
	mu sync.Mutex

	initResult *gateway.InitializeResult
	initErr    error
	initEmails []string
	initMinor  []int64

	verifyResult *gateway.VerifyResult
	verifyErr    error
	verifyCalls  int
}

func (g *fakeGateway) Initialize(ctx context.Context, email string, amountMinor int64, currency string) (*gateway.InitializeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initEmails = append(g.initEmails, email)
	g.initMinor = append(g.initMinor, amountMinor)
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.initResult, nil
}

func (g *fakeGateway) Verify(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verifyResult, nil
}

// --- transactions ---

type fakeTransactionRepo struct {
	mu      sync.Mutex
	byRef   map[string]model.PaymentTransaction
	updates int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{byRef: map[string]model.PaymentTransaction{}}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	r.byRef[tx.Reference] = *tx
	return nil
}

func (r *fakeTransactionRepo) FindByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.byRef[reference]
	if !ok {
		return nil, errNotFound
	}
	copied := tx
	return &copied, nil
}

func (r *fakeTransactionRepo) FindByReferenceForUpdate(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	return r.FindByReference(ctx, reference)
}

func (r *fakeTransactionRepo) Update(ctx context.Context, tx *model.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.byRef[tx.Reference] = *tx
	return nil
}

func (r *fakeTransactionRepo) ListVerified(ctx context.Context, userID uuid.UUID, category model.PaymentCategory, page, limit int) ([]model.PaymentTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var txs []model.PaymentTransaction
	for _, tx := range r.byRef {
		if !tx.IsVerified || tx.UserID == nil || *tx.UserID != userID {
			continue
		}
		if category != "" && tx.Category != category {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, int64(len(txs)), nil
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRef)
}

// --- donations & pledges ---

type fakeDonationRepo struct {
	mu        sync.Mutex
	donations map[uuid.UUID]model.Donation
	links     []model.DonationPayment
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: map[uuid.UUID]model.Donation{}}
}

func (r *fakeDonationRepo) Create(ctx context.Context, donation *model.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	r.donations[donation.ID] = *donation
	return nil
}

func (r *fakeDonationRepo) Update(ctx context.Context, donation *model.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations[donation.ID] = *donation
	return nil
}

func (r *fakeDonationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.donations, id)
	return nil
}

func (r *fakeDonationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.donations[id]
	if !ok {
		return nil, errNotFound
	}
	copied := d
	return &copied, nil
}

func (r *fakeDonationRepo) List(ctx context.Context, page, limit int) ([]model.Donation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Donation
	for _, d := range r.donations {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDonationRepo) CreateDonationPayment(ctx context.Context, payment *model.DonationPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.links = append(r.links, *payment)
	return nil
}

type fakePledgeRepo struct {
	mu      sync.Mutex
	pledges map[uuid.UUID]model.Pledge
	updates int
}

func newFakePledgeRepo() *fakePledgeRepo {
	return &fakePledgeRepo{pledges: map[uuid.UUID]model.Pledge{}}
}

func (r *fakePledgeRepo) Create(ctx context.Context, pledge *model.Pledge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pledge.ID == uuid.Nil {
		pledge.ID = uuid.New()
	}
	r.pledges[pledge.ID] = *pledge
	return nil
}

func (r *fakePledgeRepo) Update(ctx context.Context, pledge *model.Pledge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.pledges[pledge.ID] = *pledge
	return nil
}

func (r *fakePledgeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pledges[id]
	if !ok {
		return nil, errNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakePledgeRepo) FindActive(ctx context.Context, donationID, userID uuid.UUID) (*model.Pledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pledges {
		if p.DonationID == donationID && p.UserID == userID && !p.IsRedeemed {
			copied := p
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakePledgeRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Pledge, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pledge
	for _, p := range r.pledges {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// --- events ---

type fakeEventRepo struct {
	mu         sync.Mutex
	events     map[uuid.UUID]model.Event
	regs       map[uuid.UUID]model.EventRegistration
	regUpdates int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: map[uuid.UUID]model.Event{},
		regs:   map[uuid.UUID]model.EventRegistration{},
	}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, errNotFound
	}
	copied := e
	return &copied, nil
}

func (r *fakeEventRepo) List(ctx context.Context, page, limit int) ([]model.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Event
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) ReplaceAmounts(ctx context.Context, eventID uuid.UUID, amounts []model.EventAmount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return errNotFound
	}
	e.Amounts = amounts
	r.events[eventID] = e
	return nil
}

func (r *fakeEventRepo) CreateRegistration(ctx context.Context, reg *model.EventRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	r.regs[reg.ID] = *reg
	return nil
}

func (r *fakeEventRepo) FindRegistrationByID(ctx context.Context, id uuid.UUID) (*model.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, errNotFound
	}
	copied := reg
	if e, ok := r.events[reg.EventID]; ok {
		event := e
		copied.Event = &event
	}
	return &copied, nil
}

func (r *fakeEventRepo) UpdateRegistration(ctx context.Context, reg *model.EventRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regUpdates++
	stored := *reg
	stored.Event = nil
	r.regs[reg.ID] = stored
	return nil
}

func (r *fakeEventRepo) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.EventRegistration, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.EventRegistration
	for _, reg := range r.regs {
		if reg.UserID == userID {
			copied := reg
			if e, ok := r.events[reg.EventID]; ok {
				event := e
				copied.Event = &event
			}
			out = append(out, copied)
		}
	}
	return out, int64(len(out)), nil
}

// --- audit ---

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.AuditLog(nil), r.entries...), int64(len(r.entries)), nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	// roleCounts drives CountByRoleID without modeling full user rows
	roleCounts  map[uuid.UUID]int64
	softDeleted []uuid.UUID
	tokens      map[string]model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      map[uuid.UUID]model.User{},
		roleCounts: map[uuid.UUID]int64{},
		tokens:     map[string]model.RefreshToken{},
	}
}

func (r *fakeUserRepo) add(user model.User) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.get(id)
}

func (r *fakeUserRepo) GetWithAccess(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.get(id)
}

func (r *fakeUserRepo) get(id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PhoneNumber == phoneNumber {
			copied := u
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, query string, page, limit int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if query == "" || strings.Contains(u.FirstName, query) || strings.Contains(u.LastName, query) {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

// Delete mirrors the gorm soft delete: the row stays visible to the fake's
// finders so tests can observe the redacted fields.
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.softDeleted = append(r.softDeleted, id)
	return nil
}

func (r *fakeUserRepo) CountByRoleID(ctx context.Context, roleID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roleCounts[roleID], nil
}

func (r *fakeUserRepo) ReplaceDirectPermissions(ctx context.Context, userID uuid.UUID, perms []model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return errNotFound
	}
	u.Permissions = perms
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, errNotFound
	}
	copied := rt
	return &copied, nil
}

func (r *fakeUserRepo) DeleteRefreshTokensForUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

// --- roles ---

type fakeRoleRepo struct {
	mu      sync.Mutex
	roles   map[uuid.UUID]model.Role
	ranks   map[uuid.UUID]model.RoleRank // keyed by role ID
	catalog []model.Permission
	deleted []uuid.UUID
}

func newFakeRoleRepo(catalog ...model.Permission) *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:   map[uuid.UUID]model.Role{},
		ranks:   map[uuid.UUID]model.RoleRank{},
		catalog: catalog,
	}
}

func (r *fakeRoleRepo) Create(ctx context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	r.roles[role.ID] = *role
	return nil
}

func (r *fakeRoleRepo) CreateRank(ctx context.Context, rank *model.RoleRank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rank.ID == uuid.Nil {
		rank.ID = uuid.New()
	}
	r.ranks[rank.RoleID] = *rank
	return nil
}

func (r *fakeRoleRepo) Update(ctx context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.roles[role.ID]
	if !ok {
		return errNotFound
	}
	stored.Name = role.Name
	r.roles[role.ID] = stored
	return nil
}

func (r *fakeRoleRepo) UpsertRank(ctx context.Context, roleID uuid.UUID, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.ranks[roleID]
	if !ok {
		r.ranks[roleID] = model.RoleRank{ID: uuid.New(), RoleID: roleID, Rank: rank}
		return nil
	}
	existing.Rank = rank
	r.ranks[roleID] = existing
	return nil
}

func (r *fakeRoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles, id)
	delete(r.ranks, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRoleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, errNotFound
	}
	copied := role
	if rank, ok := r.ranks[id]; ok {
		ranking := rank
		copied.Ranking = &ranking
	}
	return &copied, nil
}

func (r *fakeRoleRepo) FindByName(ctx context.Context, name string) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, role := range r.roles {
		if role.Name == name {
			copied := role
			if rank, ok := r.ranks[id]; ok {
				ranking := rank
				copied.Ranking = &ranking
			}
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeRoleRepo) ListOrderedByRank(ctx context.Context) ([]model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Role
	for id, role := range r.roles {
		copied := role
		if rank, ok := r.ranks[id]; ok {
			ranking := rank
			copied.Ranking = &ranking
		}
		out = append(out, copied)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if rankOf(out[j]) < rankOf(out[i]) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func rankOf(r model.Role) int {
	if r.Ranking == nil {
		return 1 << 30
	}
	return r.Ranking.Rank
}

func (r *fakeRoleRepo) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Permission(nil), r.catalog...), nil
}

func (r *fakeRoleRepo) FindPermissionsByCodes(ctx context.Context, codes []string) ([]model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Permission
	for _, code := range codes {
		for _, p := range r.catalog {
			if p.Code == code {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) AppendPermissions(ctx context.Context, roleID uuid.UUID, perms []model.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return errNotFound
	}
	role.Permissions = append(role.Permissions, perms...)
	r.roles[roleID] = role
	return nil
}

func (r *fakeRoleRepo) RemovePermissions(ctx context.Context, roleID uuid.UUID, perms []model.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return errNotFound
	}
	drop := map[string]bool{}
	for _, p := range perms {
		drop[p.Code] = true
	}
	var kept []model.Permission
	for _, p := range role.Permissions {
		if !drop[p.Code] {
			kept = append(kept, p)
		}
	}
	role.Permissions = kept
	r.roles[roleID] = role
	return nil
}

func (r *fakeRoleRepo) ClearPermissions(ctx context.Context, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return errNotFound
	}
	role.Permissions = nil
	r.roles[roleID] = role
	return nil
}

func (r *fakeRoleRepo) FirstOrCreatePermission(ctx context.Context, perm *model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.catalog {
		if p.Code == perm.Code {
			*perm = p
			return nil
		}
	}
	if perm.ID == uuid.Nil {
		perm.ID = uuid.New()
	}
	r.catalog = append(r.catalog, *perm)
	return nil
}

// --- websocket hub ---

type fakeHub struct {
	mu       sync.Mutex
	messages [][]byte
}

func (h *fakeHub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, message)
}

// --- statistics ---

type fakeStatisticsRepo struct {
	mu            sync.Mutex
	jurisdictions model.JurisdictionCounts
	tally         model.MemberTally
	lastBranchID  *uuid.UUID
	childCutoff   time.Time
	youthCutoff   time.Time
}

func (r *fakeStatisticsRepo) CountJurisdictions(ctx context.Context) (model.JurisdictionCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jurisdictions, nil
}

func (r *fakeStatisticsRepo) CountMembers(ctx context.Context, branchID *uuid.UUID, childCutoff, youthCutoff time.Time) (model.MemberTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastBranchID = branchID
	r.childCutoff = childCutoff
	r.youthCutoff = youthCutoff

	tally := r.tally
	if branchID == nil {
		tally.BranchMembers = 0
		tally.DistrictMembers = 0
		tally.AreaMembers = 0
	}
	return tally, nil
}
