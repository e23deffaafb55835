package forum

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
	"github.com/eduflow/campus/internal/storage"
)

// In-memory collaborators mirroring the store contracts, including the
// hidden-reads-as-missing rule and the floored counter arithmetic.

type fakeTopics struct {
	mu     sync.Mutex
	nextID int64
	topics map[int64]*models.Topic
}

func newFakeTopics() *fakeTopics {
	return &fakeTopics{nextID: 1, topics: make(map[int64]*models.Topic)}
}

func (f *fakeTopics) GetByID(_ context.Context, id int64) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.topics[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTopics) Create(_ context.Context, topic *models.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	topic.ID = f.nextID
	f.nextID++
	cp := *topic
	f.topics[topic.ID] = &cp
	return nil
}

func (f *fakeTopics) ListByCategory(_ context.Context, categoryID int64) ([]models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Topic
	for _, t := range f.topics {
		if t.CategoryID == categoryID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeThreads struct {
	mu      sync.Mutex
	nextID  int64
	threads map[int64]*models.Thread
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{nextID: 1, threads: make(map[int64]*models.Thread)}
}

func (f *fakeThreads) GetByID(_ context.Context, id int64) (*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok || t.Hidden {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeThreads) Create(_ context.Context, thread *models.Thread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread.ID = f.nextID
	f.nextID++
	cp := *thread
	f.threads[thread.ID] = &cp
	return nil
}

func (f *fakeThreads) UpdateContent(_ context.Context, id int64, title, body sql.NullString) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok {
		return fmt.Errorf("thread %d not found", id)
	}
	t.Title = title
	t.Body = body
	return nil
}

func (f *fakeThreads) Hide(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.threads[id]
	if !ok || t.Hidden {
		return false, nil
	}
	t.Hidden = true
	return true, nil
}

func (f *fakeThreads) ListByTopic(_ context.Context, topicID int64, sortKey string, offset, limit int) ([]models.Thread, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Thread
	for _, t := range f.threads {
		if t.TopicID == topicID && !t.Hidden {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		switch sortKey {
		case models.SortLikes:
			return out[i].Likes > out[j].Likes
		case models.SortOldest:
			return out[i].ID < out[j].ID
		default:
			return out[i].ID > out[j].ID
		}
	})
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

// bump adjusts the denormalized counters, flooring at zero.
func (f *fakeThreads) bump(id int64, likes, dislikes, comments int) (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.threads[id]
	t.Likes = floorAdd(t.Likes, likes)
	t.Dislikes = floorAdd(t.Dislikes, dislikes)
	t.Comments = floorAdd(t.Comments, comments)
	return t.Likes, t.Dislikes, t.Comments
}

type fakeComments struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*models.Comment
	threads  *fakeThreads
}

func newFakeComments(threads *fakeThreads) *fakeComments {
	return &fakeComments{nextID: 1, comments: make(map[int64]*models.Comment), threads: threads}
}

func (f *fakeComments) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok || c.Hidden {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComments) Create(_ context.Context, comment *models.Comment) (int, error) {
	f.mu.Lock()
	comment.ID = f.nextID
	f.nextID++
	cp := *comment
	f.comments[comment.ID] = &cp
	f.mu.Unlock()
	_, _, count := f.threads.bump(comment.ThreadID, 0, 0, 1)
	return count, nil
}

func (f *fakeComments) UpdateContent(_ context.Context, id int64, body sql.NullString) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return fmt.Errorf("comment %d not found", id)
	}
	c.Body = body
	return nil
}

func (f *fakeComments) Hide(_ context.Context, id, threadID int64) (bool, int, error) {
	f.mu.Lock()
	c, ok := f.comments[id]
	if !ok || c.Hidden {
		f.mu.Unlock()
		return false, 0, nil
	}
	c.Hidden = true
	f.mu.Unlock()
	_, _, count := f.threads.bump(threadID, 0, 0, -1)
	return true, count, nil
}

func (f *fakeComments) ListByThread(_ context.Context, threadID int64, _ string, offset, limit int) ([]models.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.comments {
		if c.ThreadID == threadID && !c.Hidden {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

type voteKey struct {
	userID int64
	kind   string
	id     int64
}

type fakeVotes struct {
	mu       sync.Mutex
	nextID   int64
	votes    map[voteKey]*models.Vote
	threads  *fakeThreads
	comments *fakeComments
}

func newFakeVotes(threads *fakeThreads, comments *fakeComments) *fakeVotes {
	return &fakeVotes{nextID: 1, votes: make(map[voteKey]*models.Vote), threads: threads, comments: comments}
}

func (f *fakeVotes) Status(_ context.Context, voterID int64, targetKind string, targetID int64) (*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.votes[voteKey{voterID, targetKind, targetID}]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVotes) InTx(_ context.Context, fn func(tx VoteTx) error) error {
	return fn(&fakeVoteTx{f})
}

type fakeVoteTx struct {
	store *fakeVotes
}

func (tx *fakeVoteTx) Get(voterID int64, targetKind string, targetID int64) (*models.Vote, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	v, ok := tx.store.votes[voteKey{voterID, targetKind, targetID}]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (tx *fakeVoteTx) Create(vote *models.Vote) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	vote.ID = tx.store.nextID
	tx.store.nextID++
	cp := *vote
	tx.store.votes[voteKey{vote.UserID, vote.TargetKind, vote.TargetID}] = &cp
	return nil
}

func (tx *fakeVoteTx) UpdateType(voteID int64, voteType string) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, v := range tx.store.votes {
		if v.ID == voteID {
			v.Type = voteType
			return nil
		}
	}
	return fmt.Errorf("vote %d not found", voteID)
}

func (tx *fakeVoteTx) Delete(voteID int64) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for k, v := range tx.store.votes {
		if v.ID == voteID {
			delete(tx.store.votes, k)
			return nil
		}
	}
	return fmt.Errorf("vote %d not found", voteID)
}

func (tx *fakeVoteTx) ApplyCounters(targetKind string, targetID int64, likesDelta, dislikesDelta int) (int, int, error) {
	if targetKind == models.TargetThread {
		likes, dislikes, _ := tx.store.threads.bump(targetID, likesDelta, dislikesDelta, 0)
		return likes, dislikes, nil
	}
	tx.store.comments.mu.Lock()
	defer tx.store.comments.mu.Unlock()
	c, ok := tx.store.comments.comments[targetID]
	if !ok {
		return 0, 0, fmt.Errorf("comment %d not found", targetID)
	}
	c.Likes = floorAdd(c.Likes, likesDelta)
	c.Dislikes = floorAdd(c.Dislikes, dislikesDelta)
	return c.Likes, c.Dislikes, nil
}

type reportKey struct {
	reporterID int64
	kind       string
	id         int64
}

type fakeReports struct {
	mu      sync.Mutex
	nextID  int64
	reports map[reportKey]*models.Report
	flagger interface {
		flag(kind string, id int64)
	}
}

func newFakeReports(flagger interface{ flag(kind string, id int64) }) *fakeReports {
	return &fakeReports{nextID: 1, reports: make(map[reportKey]*models.Report), flagger: flagger}
}

func (f *fakeReports) Create(_ context.Context, report *models.Report) (bool, error) {
	f.mu.Lock()
	key := reportKey{report.ReporterID, report.TargetKind, report.TargetID}
	if _, exists := f.reports[key]; exists {
		f.mu.Unlock()
		return false, nil
	}
	report.ID = f.nextID
	f.nextID++
	cp := *report
	f.reports[key] = &cp
	f.mu.Unlock()
	if f.flagger != nil {
		f.flagger.flag(report.TargetKind, report.TargetID)
	}
	return true, nil
}

func (f *fakeReports) ListByTarget(_ context.Context, targetKind string, targetID int64) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Report
	for _, r := range f.reports {
		if r.TargetKind == targetKind && r.TargetID == targetID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeReports) Resolve(_ context.Context, reportID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reports {
		if r.ID == reportID && !r.Resolved {
			r.Resolved = true
			return true, nil
		}
	}
	return false, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (f *fakePublisher) Publish(channel, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, realtime.Event{Channel: channel, Name: event, Payload: payload})
}

func (f *fakePublisher) byName(name string) []realtime.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []realtime.Event
	for _, e := range f.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) NotifyModerators(_ context.Context, event string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type fakePlacer struct {
	placement storage.Placement
	err       error
	calls     int
	lastOwner []string
}

func (f *fakePlacer) Place(_ context.Context, owner []string, purpose string, actorID int64, up storage.Upload) (storage.Placement, error) {
	f.calls++
	f.lastOwner = owner
	if f.err != nil {
		return storage.Placement{}, f.err
	}
	if f.placement.URL != "" {
		return f.placement, nil
	}
	return storage.Placement{
		URL:          fmt.Sprintf("uploads/chat/%s_%d", purpose, actorID),
		OriginalName: up.OriginalName,
		MediaKind:    storage.MediaFile,
	}, nil
}

func floorAdd(v, delta int) int {
	v += delta
	if v < 0 {
		return 0
	}
	return v
}

// fixture wires a service over in-memory collaborators with one topic
// and one thread pre-seeded.
type fixture struct {
	svc      *Service
	topics   *fakeTopics
	threads  *fakeThreads
	comments *fakeComments
	votes    *fakeVotes
	reports  *fakeReports
	placer   *fakePlacer
	pub      *fakePublisher
	notifier *fakeNotifier
	topic    *models.Topic
	thread   *models.Thread
}

type targetFlagger struct {
	threads  *fakeThreads
	comments *fakeComments
}

func (f *targetFlagger) flag(kind string, id int64) {
	if kind == models.TargetThread {
		f.threads.mu.Lock()
		if t, ok := f.threads.threads[id]; ok {
			t.Flagged = true
		}
		f.threads.mu.Unlock()
		return
	}
	f.comments.mu.Lock()
	if c, ok := f.comments.comments[id]; ok {
		c.Flagged = true
	}
	f.comments.mu.Unlock()
}

func newFixture() *fixture {
	topics := newFakeTopics()
	threads := newFakeThreads()
	comments := newFakeComments(threads)
	votes := newFakeVotes(threads, comments)
	reports := newFakeReports(&targetFlagger{threads: threads, comments: comments})
	placer := &fakePlacer{}
	pub := &fakePublisher{}
	notifier := &fakeNotifier{}

	topic := &models.Topic{
		CategoryID: 1,
		Title:      "Duvidas Gerais",
		CreatorID:  99,
		Category:   &models.Category{ID: 1, Name: "Programacao Web"},
	}
	_ = topics.Create(context.Background(), topic)

	thread := &models.Thread{
		TopicID:  topic.ID,
		AuthorID: 10,
		Title:    sql.NullString{String: "first", Valid: true},
		Body:     sql.NullString{String: "hello", Valid: true},
	}
	_ = threads.Create(context.Background(), thread)

	return &fixture{
		svc:      NewService(topics, threads, comments, votes, reports, placer, pub, notifier),
		topics:   topics,
		threads:  threads,
		comments: comments,
		votes:    votes,
		reports:  reports,
		placer:   placer,
		pub:      pub,
		notifier: notifier,
		topic:    topic,
		thread:   thread,
	}
}

func author() Identity {
	return Identity{UserID: 10, RoleID: 2}
}

func moderator() Identity {
	return Identity{UserID: 1, RoleID: RoleModerator}
}

func stranger() Identity {
	return Identity{UserID: 77, RoleID: 2}
}
