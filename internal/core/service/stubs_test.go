package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// In-memory fakes shared by the service tests. Mutations hold a mutex so the
// conditional-update contracts of the real repositories are reproduced, not
// just their signatures.

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int
}

func newFakeAccounts(accounts ...*domain.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		clone := cloneAccount(a)
		f.accounts[clone.ID] = clone
	}
	return f
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	clone.JoinedClubs = append([]string(nil), a.JoinedClubs...)
	clone.VotedElections = append([]string(nil), a.VotedElections...)
	return &clone
}

func (f *fakeAccounts) get(id string) *domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		return cloneAccount(a)
	}
	return nil
}

func (f *fakeAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Username == a.Username || (a.Email != "" && existing.Email == a.Email) {
			return nil, domain.ErrAccountExists
		}
	}
	f.nextID++
	clone := cloneAccount(a)
	clone.ID = fmt.Sprintf("acc%d", f.nextID)
	f.accounts[clone.ID] = clone
	return cloneAccount(clone), nil
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a := f.get(id); a != nil {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccounts) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if (username != "" && a.Username == username) || (email != "" && a.Email == email) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccounts) List(context.Context, ports.AccountFilter) ([]*domain.Account, int64, error) {
	return nil, 0, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccounts) SetRole(_ context.Context, id string, role domain.Role, perms domain.Permissions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role, a.Permissions = role, perms
	return nil
}

func (f *fakeAccounts) SetPassword(_ context.Context, id string, hash string, perms domain.Permissions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash, a.Permissions = hash, perms
	return nil
}

func (f *fakeAccounts) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsActive = active
	return nil
}

func (f *fakeAccounts) Unlock(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsLocked, a.LoginAttempts, a.LockUntil = false, 0, time.Time{}
	return nil
}

func (f *fakeAccounts) RecordFailedLogin(_ context.Context, id string, threshold int, lockFor time.Duration, now time.Time) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.LoginAttempts++
	if a.LoginAttempts >= threshold {
		a.IsLocked = true
		a.LockUntil = now.Add(lockFor)
	}
	return cloneAccount(a), nil
}

func (f *fakeAccounts) ClearLoginFailures(_ context.Context, id string, lastLogin time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LoginAttempts, a.IsLocked, a.LockUntil = 0, false, time.Time{}
	a.LastLogin = lastLogin
	return nil
}

func (f *fakeAccounts) SetAssignedClub(_ context.Context, id string, clubID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.AssignedClub = clubID
	return nil
}

func (f *fakeAccounts) AddJoinedClub(_ context.Context, id string, clubID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	for _, c := range a.JoinedClubs {
		if c == clubID {
			return nil
		}
	}
	a.JoinedClubs = append(a.JoinedClubs, clubID)
	return nil
}

func (f *fakeAccounts) AddVotedElection(_ context.Context, id string, electionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	for _, e := range a.VotedElections {
		if e == electionID {
			return nil
		}
	}
	a.VotedElections = append(a.VotedElections, electionID)
	return nil
}

func (f *fakeAccounts) CountEligibleVoters(_ context.Context, roles []domain.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.accounts {
		if !a.IsActive {
			continue
		}
		for _, r := range roles {
			if a.Role == r {
				n++
				break
			}
		}
	}
	return n, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: make(map[string]string)}
}

func (f *fakeTokens) Save(_ context.Context, token, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = accountID
	return nil
}

func (f *fakeTokens) Consume(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accountID, ok := f.tokens[token]
	if !ok {
		return "", domain.ErrInvalidResetToken
	}
	delete(f.tokens, token)
	return accountID, nil
}

type fakeMail struct {
	mu   sync.Mutex
	sent []ports.Mail
}

func (f *fakeMail) Enqueue(m ports.Mail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
}

func (f *fakeMail) messages() []ports.Mail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.Mail(nil), f.sent...)
}

type fakeElections struct {
	mu        sync.Mutex
	elections map[string]*domain.Election
	nextID    int
}

func newFakeElections(elections ...*domain.Election) *fakeElections {
	f := &fakeElections{elections: make(map[string]*domain.Election)}
	for _, e := range elections {
		f.elections[e.ID] = cloneElection(e)
	}
	return f
}

func cloneElection(e *domain.Election) *domain.Election {
	clone := *e
	clone.Candidates = make([]domain.Candidate, len(e.Candidates))
	copy(clone.Candidates, e.Candidates)
	clone.Voters = append([]domain.VoteRecord(nil), e.Voters...)
	return &clone
}

func (f *fakeElections) Create(_ context.Context, e *domain.Election) (*domain.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	clone := cloneElection(e)
	clone.ID = fmt.Sprintf("elec%d", f.nextID)
	f.elections[clone.ID] = clone
	return cloneElection(clone), nil
}

func (f *fakeElections) FindByID(_ context.Context, id string) (*domain.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.elections[id]; ok {
		return cloneElection(e), nil
	}
	return nil, domain.ErrElectionNotFound
}

func (f *fakeElections) List(context.Context, ports.ElectionFilter) ([]*domain.Election, int64, error) {
	return nil, 0, nil
}

func (f *fakeElections) Update(_ context.Context, e *domain.Election) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.elections[e.ID]; !ok {
		return domain.ErrElectionNotFound
	}
	f.elections[e.ID] = cloneElection(e)
	return nil
}

func (f *fakeElections) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.elections[id]; !ok {
		return domain.ErrElectionNotFound
	}
	delete(f.elections, id)
	return nil
}

func (f *fakeElections) UpdateStatus(_ context.Context, id string, status domain.ElectionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elections[id]
	if !ok {
		return domain.ErrElectionNotFound
	}
	if e.Status != domain.ElectionCancelled {
		e.Status = status
	}
	return nil
}

// CastVote enforces the real repository's contract: the eligibility condition
// and the full mutation are one unit under the lock.
func (f *fakeElections) CastVote(_ context.Context, electionID string, record domain.VoteRecord, now time.Time) (*domain.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elections[electionID]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	if e.HasVoted(record.Account) {
		return nil, domain.ErrAlreadyVoted
	}
	if e.CurrentStatus(now) != domain.ElectionActive {
		return nil, domain.ErrElectionNotActive
	}
	candidate := e.Candidate(record.CandidateID)
	if candidate == nil {
		return nil, domain.ErrCandidateNotFound
	}
	e.Voters = append(e.Voters, record)
	candidate.Votes++
	candidate.Voters = append(candidate.Voters, record.Account)
	e.TotalVotes++
	return cloneElection(e), nil
}

func (f *fakeElections) PublishResults(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elections[id]
	if !ok {
		return domain.ErrElectionNotFound
	}
	e.ResultsPublished = true
	e.PublishedAt = at
	return nil
}

func (f *fakeElections) RefreshStatuses(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.elections {
		derived := e.CurrentStatus(now)
		if derived != e.Status {
			e.Status = derived
			n++
		}
	}
	return n, nil
}

func (f *fakeElections) Stats(context.Context) (*ports.ElectionStats, error) {
	return &ports.ElectionStats{}, nil
}

type fakeComplaints struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	nextID     int
}

func newFakeComplaints(complaints ...*domain.Complaint) *fakeComplaints {
	f := &fakeComplaints{complaints: make(map[string]*domain.Complaint)}
	for _, c := range complaints {
		f.complaints[c.ID] = cloneComplaint(c)
	}
	return f
}

func cloneComplaint(c *domain.Complaint) *domain.Complaint {
	clone := *c
	clone.CanBeResolvedBy = append([]domain.Role(nil), c.CanBeResolvedBy...)
	clone.Responses = append([]domain.ComplaintResponse(nil), c.Responses...)
	clone.Documents = append([]domain.ComplaintDocument(nil), c.Documents...)
	return &clone
}

func (f *fakeComplaints) Create(_ context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	clone := cloneComplaint(c)
	clone.ID = fmt.Sprintf("cmp%d", f.nextID)
	f.complaints[clone.ID] = clone
	return cloneComplaint(clone), nil
}

func (f *fakeComplaints) FindByID(_ context.Context, id string) (*domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.complaints[id]; ok {
		return cloneComplaint(c), nil
	}
	return nil, domain.ErrComplaintNotFound
}

func (f *fakeComplaints) List(context.Context, ports.ComplaintFilter) ([]*domain.Complaint, int64, error) {
	return nil, 0, nil
}

func (f *fakeComplaints) AddResponse(_ context.Context, id string, response domain.ComplaintResponse, assignTo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.Responses = append(c.Responses, response)
	if assignTo != "" && c.Status == domain.ComplaintSubmitted {
		c.AssignedTo = assignTo
		c.Status = domain.ComplaintUnderReview
	}
	return nil
}

func (f *fakeComplaints) Assign(_ context.Context, id string, assignTo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.AssignedTo = assignTo
	if c.Status == domain.ComplaintSubmitted {
		c.Status = domain.ComplaintUnderReview
	}
	return nil
}

func (f *fakeComplaints) SetType(_ context.Context, id string, t domain.ComplaintType, resolvers []domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.ComplaintType = t
	c.CanBeResolvedBy = append([]domain.Role(nil), resolvers...)
	return nil
}

func (f *fakeComplaints) Resolve(_ context.Context, id string, resolvedBy string, rt domain.ResolutionType, notes string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	if c.Status == domain.ComplaintResolved || c.Status == domain.ComplaintClosed {
		return domain.ErrComplaintAlreadyResolved
	}
	c.Status = domain.ComplaintResolved
	c.ResolvedBy = resolvedBy
	c.ResolutionType = rt
	c.ResolutionNotes = notes
	c.ResolvedAt = at
	return nil
}

func (f *fakeComplaints) Close(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	if c.Status == domain.ComplaintClosed {
		return domain.ErrComplaintClosed
	}
	c.Status = domain.ComplaintClosed
	c.ClosedAt = at
	return nil
}

func (f *fakeComplaints) AddDocument(_ context.Context, id string, doc domain.ComplaintDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.Documents = append(c.Documents, doc)
	return nil
}

func (f *fakeComplaints) Stats(context.Context, []domain.ComplaintType) (*ports.ComplaintStats, error) {
	return &ports.ComplaintStats{}, nil
}

type fakeClubs struct {
	mu     sync.Mutex
	clubs  map[string]*domain.Club
	nextID int
}

func newFakeClubs(clubs ...*domain.Club) *fakeClubs {
	f := &fakeClubs{clubs: make(map[string]*domain.Club)}
	for _, c := range clubs {
		f.clubs[c.ID] = cloneClub(c)
	}
	return f
}

func cloneClub(c *domain.Club) *domain.Club {
	clone := *c
	clone.Members = append([]domain.ClubMember(nil), c.Members...)
	return &clone
}

func (f *fakeClubs) Create(_ context.Context, c *domain.Club) (*domain.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	clone := cloneClub(c)
	clone.ID = fmt.Sprintf("club%d", f.nextID)
	f.clubs[clone.ID] = clone
	return cloneClub(clone), nil
}

func (f *fakeClubs) FindByID(_ context.Context, id string) (*domain.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clubs[id]; ok {
		return cloneClub(c), nil
	}
	return nil, domain.ErrClubNotFound
}

func (f *fakeClubs) List(context.Context, ports.ClubFilter) ([]*domain.Club, int64, error) {
	return nil, 0, nil
}

func (f *fakeClubs) Update(_ context.Context, c *domain.Club) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clubs[c.ID]; !ok {
		return domain.ErrClubNotFound
	}
	f.clubs[c.ID] = cloneClub(c)
	return nil
}

func (f *fakeClubs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clubs[id]; !ok {
		return domain.ErrClubNotFound
	}
	delete(f.clubs, id)
	return nil
}

func (f *fakeClubs) SetAdmin(_ context.Context, clubID string, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clubs[clubID]
	if !ok {
		return domain.ErrClubNotFound
	}
	c.ClubAdmin = accountID
	return nil
}

func (f *fakeClubs) AddMember(_ context.Context, clubID string, m domain.ClubMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clubs[clubID]
	if !ok {
		return domain.ErrClubNotFound
	}
	if c.Member(m.AccountID) != nil {
		return domain.ErrAlreadyMember
	}
	c.Members = append(c.Members, m)
	return nil
}

func (f *fakeClubs) SetMemberStatus(_ context.Context, clubID string, accountID string, status domain.MemberStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clubs[clubID]
	if !ok {
		return domain.ErrClubNotFound
	}
	m := c.Member(accountID)
	if m == nil {
		return domain.ErrAccountNotFound
	}
	m.Status = status
	return nil
}

type fakeNews struct {
	mu     sync.Mutex
	items  map[string]*domain.News
	nextID int
}

func newFakeNews(items ...*domain.News) *fakeNews {
	f := &fakeNews{items: make(map[string]*domain.News)}
	for _, n := range items {
		f.items[n.ID] = cloneNews(n)
	}
	return f
}

func cloneNews(n *domain.News) *domain.News {
	clone := *n
	clone.Attachments = append([]domain.NewsAttachment(nil), n.Attachments...)
	return &clone
}

func (f *fakeNews) Create(_ context.Context, n *domain.News) (*domain.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	clone := cloneNews(n)
	clone.ID = fmt.Sprintf("news%d", f.nextID)
	f.items[clone.ID] = clone
	return cloneNews(clone), nil
}

func (f *fakeNews) FindByID(_ context.Context, id string) (*domain.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.items[id]; ok {
		return cloneNews(n), nil
	}
	return nil, domain.ErrNewsNotFound
}

func (f *fakeNews) List(context.Context, ports.NewsFilter) ([]*domain.News, int64, error) {
	return nil, 0, nil
}

func (f *fakeNews) Update(_ context.Context, n *domain.News) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[n.ID]; !ok {
		return domain.ErrNewsNotFound
	}
	f.items[n.ID] = cloneNews(n)
	return nil
}

func (f *fakeNews) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNewsNotFound
	}
	delete(f.items, id)
	return nil
}
