package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/constant"
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"

	"gorm.io/gorm"
)

// errRecordNotFound mirrors what the sqlite repositories wrap for
// owner-scoped misses.
var errRecordNotFound = gorm.ErrRecordNotFound

// Valid LINE-format identifiers for tests.
var (
	testUserA  = "U" + strings.Repeat("a1", 16)
	testUserB  = "U" + strings.Repeat("b2", 16)
	testUserC  = "U" + strings.Repeat("c3", 16)
	testGroupA = "C" + strings.Repeat("d4", 16)
)

func testLogger() logger.Logger {
	return logger.NewWithWriter(&strings.Builder{})
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[uint]*entity.Interview
	nextID     uint
	findErr    error
	markErr    error
	marked     []string
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[uint]*entity.Interview), nextID: 1}
}

func (r *fakeInterviewRepo) add(iv *entity.Interview) *entity.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iv.ID == 0 {
		iv.ID = r.nextID
		r.nextID++
	}
	r.interviews[iv.ID] = iv
	return iv
}

func (r *fakeInterviewRepo) Create(_ context.Context, iv *entity.Interview) (uint, error) {
	return r.add(iv).ID, nil
}

func (r *fakeInterviewRepo) FindByID(_ context.Context, id uint) (*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return nil, fmt.Errorf("interview %d not found: %w", id, errRecordNotFound)
	}
	return iv, nil
}

func (r *fakeInterviewRepo) FindByOwner(_ context.Context, ownerID string) ([]*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Interview
	for _, iv := range r.interviews {
		if iv.OwnerID == ownerID {
			out = append(out, iv)
		}
	}
	sortByDateTime(out)
	return out, nil
}

func (r *fakeInterviewRepo) FindUpcoming(_ context.Context, fromDate string) ([]*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*entity.Interview
	for _, iv := range r.interviews {
		if iv.Date >= fromDate {
			out = append(out, iv)
		}
	}
	sortByDateTime(out)
	return out, nil
}

func (r *fakeInterviewRepo) FindPendingReminders(_ context.Context, fromDate string) ([]*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*entity.Interview
	for _, iv := range r.interviews {
		if iv.Date >= fromDate && (!iv.Reminder24hSent || !iv.Reminder3hSent) {
			out = append(out, iv)
		}
	}
	sortByDateTime(out)
	return out, nil
}

func (r *fakeInterviewRepo) UpdateFields(_ context.Context, ownerID string, id uint, fields map[string]any) (*entity.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok || iv.OwnerID != ownerID {
		return nil, fmt.Errorf("interview %d not found for owner %s: %w", id, ownerID, errRecordNotFound)
	}
	for k, v := range fields {
		switch k {
		case "interviewee":
			iv.Interviewee = v.(string)
		case "interviewer":
			iv.Interviewer = v.(string)
		case "interview_date":
			iv.Date = v.(string)
		case "interview_time":
			iv.Time = v.(string)
		case "reason":
			iv.Reason = v.(string)
		case "reminder_24h_sent":
			iv.Reminder24hSent = v.(bool)
		case "reminder_3h_sent":
			iv.Reminder3hSent = v.(bool)
		}
	}
	return iv, nil
}

func (r *fakeInterviewRepo) MarkReminderSent(_ context.Context, id uint, kind constant.ReminderKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	iv, ok := r.interviews[id]
	if !ok {
		return fmt.Errorf("interview %d not found", id)
	}
	if kind == constant.Reminder24Hour {
		iv.Reminder24hSent = true
	} else {
		iv.Reminder3hSent = true
	}
	r.marked = append(r.marked, fmt.Sprintf("%d:%s", id, kind.Label()))
	return nil
}

func (r *fakeInterviewRepo) Delete(_ context.Context, ownerID string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok || iv.OwnerID != ownerID {
		return fmt.Errorf("interview %d not found for owner %s: %w", id, ownerID, errRecordNotFound)
	}
	delete(r.interviews, id)
	return nil
}

func sortByDateTime(ivs []*entity.Interview) {
	sort.Slice(ivs, func(a, b int) bool {
		if ivs[a].Date != ivs[b].Date {
			return ivs[a].Date < ivs[b].Date
		}
		return ivs[a].Time < ivs[b].Time
	})
}

type fakeNotifier struct {
	mu      sync.Mutex
	pushed  []string
	failFor map[string]error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: make(map[string]error)}
}

func (n *fakeNotifier) Push(_ context.Context, to entity.RecipientID, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[to.String()]; ok {
		return err
	}
	n.pushed = append(n.pushed, to.String())
	return nil
}

func (n *fakeNotifier) pushCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pushed)
}

type fakeContactRepo struct {
	users   []string
	groups  []string
	listErr error
}

func (r *fakeContactRepo) Activate(_ context.Context, id entity.RecipientID) error {
	if id.Kind() == entity.RecipientUser {
		r.users = append(r.users, id.String())
	} else {
		r.groups = append(r.groups, id.String())
	}
	return nil
}

func (r *fakeContactRepo) Deactivate(_ context.Context, _ entity.RecipientID) error {
	return nil
}

func (r *fakeContactRepo) ListActiveIDs(_ context.Context, kind entity.RecipientKind) ([]string, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if kind == entity.RecipientUser {
		return r.users, nil
	}
	return r.groups, nil
}

// newTestInterview builds an interview whose start is at the given instant.
func newTestInterview(id uint, start time.Time) *entity.Interview {
	return &entity.Interview{
		ID:          id,
		OwnerID:     testUserA,
		Interviewee: "王小明",
		Interviewer: "陳主任",
		Date:        start.Format(entity.DateLayout),
		Time:        start.Format(entity.TimeLayout),
	}
}
