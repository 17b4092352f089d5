package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/realtime"
	"github.com/hirebridge/hirebridge/internal/utils"
)

// In-memory fakes for the repo interfaces, shared by the service tests.

type fakeConversationRepo struct {
	mu           sync.Mutex
	convos       map[string]*models.Conversation
	participants map[string][]models.ConversationParticipant
	listCalls    int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		convos:       map[string]*models.Conversation{},
		participants: map[string][]models.ConversationParticipant{},
	}
}

func (f *fakeConversationRepo) ListByUser(_ context.Context, userID string) ([]models.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []models.ConversationSummary
	for id, c := range f.convos {
		for _, p := range f.participants[id] {
			if p.UserID == userID {
				out = append(out, models.ConversationSummary{ID: c.ID, Title: c.Title})
				break
			}
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convos[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversationRepo) IsParticipant(_ context.Context, conversationID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.participants[conversationID] {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConversationRepo) ParticipantIDs(_ context.Context, conversationID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, p := range f.participants[conversationID] {
		ids = append(ids, p.UserID)
	}
	return ids, nil
}

func (f *fakeConversationRepo) FindByApplicationForUser(_ context.Context, applicationID, userID string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.convos {
		if c.ApplicationID == nil || *c.ApplicationID != applicationID {
			continue
		}
		for _, p := range f.participants[id] {
			if p.UserID == userID {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeConversationRepo) CreateWithParticipants(_ context.Context, conv *models.Conversation, parts []models.ConversationParticipant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *conv
	f.convos[conv.ID] = &cp
	for i := range parts {
		parts[i].ConversationID = conv.ID
	}
	f.participants[conv.ID] = append([]models.ConversationParticipant(nil), parts...)
	return nil
}

func (f *fakeConversationRepo) Messages(_ context.Context, conversationID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convos[conversationID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if len(c.Messages) == 0 {
		return []models.Message{}, nil
	}
	var msgs []models.Message
	if err := json.Unmarshal(c.Messages, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (f *fakeConversationRepo) AppendMessage(_ context.Context, conversationID string, msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convos[conversationID]
	if !ok {
		return utils.ErrNotFound
	}
	var msgs []models.Message
	if len(c.Messages) > 0 {
		if err := json.Unmarshal(c.Messages, &msgs); err != nil {
			return err
		}
	}
	msgs = append(msgs, msg)
	b, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	c.Messages = b
	at := msg.CreatedAt
	c.LastMessageAt = &at
	return nil
}

func (f *fakeConversationRepo) MarkRead(_ context.Context, conversationID, readerID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convos[conversationID]
	if !ok {
		return utils.ErrNotFound
	}
	var msgs []models.Message
	if len(c.Messages) > 0 {
		if err := json.Unmarshal(c.Messages, &msgs); err != nil {
			return err
		}
	}
	for i := range msgs {
		if msgs[i].SenderID != readerID && msgs[i].ReadAt == nil {
			t := at
			msgs[i].ReadAt = &t
		}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	c.Messages = b
	return nil
}

type fakeApplicationRepo struct {
	mu         sync.Mutex
	apps       map[string]*models.JobApplication
	interviews *fakeInterviewRepo
}

func newFakeApplicationRepo(ivs *fakeInterviewRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*models.JobApplication{}, interviews: ivs}
}

func (f *fakeApplicationRepo) put(app *models.JobApplication) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *app
	f.apps[app.ID] = &cp
}

func (f *fakeApplicationRepo) Create(_ context.Context, app *models.JobApplication) error {
	f.put(app)
	return nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplicationRepo) GetBySeekerAndJob(_ context.Context, seekerID, jobID string) (*models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.SeekerID == seekerID && a.JobID == jobID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeApplicationRepo) ListBySeeker(_ context.Context, seekerID string) ([]models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.JobApplication
	for _, a := range f.apps {
		if a.SeekerID == seekerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) ListByJob(_ context.Context, jobID string) ([]models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.JobApplication
	for _, a := range f.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) Update(_ context.Context, app *models.JobApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.apps[app.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApplicationRepo) ResolveDirectInterview(ctx context.Context, interviewID string, appStatus models.ApplicationStatus, appNotes string, ivStatus models.InterviewStatus, ivNotes string) (*models.JobApplication, error) {
	iv, err := f.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app, err := f.GetBySeekerAndJob(ctx, iv.SeekerID, iv.JobID)
	if err != nil {
		app = &models.JobApplication{
			ID:        "app-for-" + interviewID,
			SeekerID:  iv.SeekerID,
			JobID:     iv.JobID,
			AppliedAt: now,
		}
	} else if app.Status != appStatus && !models.CanTransition(app.Status, appStatus) {
		return nil, utils.ErrInvalidTransition
	}
	app.Status = appStatus
	app.InterviewID = &iv.ID
	if appNotes != "" {
		app.EmployerNotes = appNotes
	}
	app.UpdatedAt = now
	f.put(app)

	iv.Status = ivStatus
	iv.ApplicationID = &app.ID
	if ivNotes != "" {
		iv.Notes = ivNotes
	}
	iv.UpdatedAt = now
	f.interviews.put(iv)

	return app, nil
}

func (f *fakeApplicationRepo) UpdateWithInterview(ctx context.Context, app *models.JobApplication, iv *models.Interview) error {
	if err := f.Update(ctx, app); err != nil {
		return err
	}
	f.interviews.put(iv)
	return nil
}

func (f *fakeApplicationRepo) ScheduleInterview(ctx context.Context, app *models.JobApplication, iv *models.Interview) error {
	f.interviews.put(iv)
	f.put(app)
	return nil
}

type fakeInterviewRepo struct {
	mu  sync.Mutex
	ivs map[string]*models.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{ivs: map[string]*models.Interview{}}
}

func (f *fakeInterviewRepo) put(iv *models.Interview) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *iv
	f.ivs[iv.ID] = &cp
}

func (f *fakeInterviewRepo) Create(_ context.Context, iv *models.Interview) error {
	f.put(iv)
	return nil
}

func (f *fakeInterviewRepo) GetByID(_ context.Context, id string) (*models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.ivs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeInterviewRepo) ListBySeeker(_ context.Context, seekerID string) ([]models.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Interview
	for _, iv := range f.ivs {
		if iv.SeekerID == seekerID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (f *fakeInterviewRepo) Update(_ context.Context, iv *models.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ivs[iv.ID]; !ok {
		return utils.ErrNotFound
	}
	cp := *iv
	f.ivs[iv.ID] = &cp
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*models.Job{}}
}

func (f *fakeJobRepo) put(j *models.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *j
	f.jobs[j.ID] = &cp
}

func (f *fakeJobRepo) Create(_ context.Context, j *models.Job) error {
	f.put(j)
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) ListByEmployer(_ context.Context, employerID string) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Job
	for _, j := range f.jobs {
		if j.EmployerID == employerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) Search(_ context.Context, _ models.JobSearchFilter) ([]models.Job, error) {
	return nil, nil
}

func (f *fakeJobRepo) Recommend(_ context.Context, _ *models.Profile, _ int) ([]models.Job, error) {
	return nil, nil
}

func (f *fakeJobRepo) Update(_ context.Context, j *models.Job) error {
	f.put(j)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.Profile{}}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.profiles[p.UserID] = &cp
	return nil
}

func (f *fakeProfileRepo) Exists(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.profiles[userID]
	return ok, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = b
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []realtime.MessageEvent
}

func (f *fakePublisher) PublishMessage(_ context.Context, ev realtime.MessageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}
