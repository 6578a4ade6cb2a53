package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/clock"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReminderService(repo *fakeInterviewRepo, contacts *fakeContactRepo, notifier *fakeNotifier, now time.Time) ReminderService {
	resolver := NewBroadcastResolver(contacts, nil, testLogger())
	return NewReminderService(repo, resolver, notifier, clock.Fixed(now), testLogger())
}

func TestProcessDueReminders_SendsAndPersists(t *testing.T) {
	now := time.Date(2026, 9, 10, 14, 35, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	iv := repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA, testUserB}, groups: []string{testGroupA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalSent)
	assert.Empty(t, report.Errors)
	assert.True(t, iv.Reminder24hSent)
	assert.False(t, iv.Reminder3hSent)
	assert.Equal(t, []string{"1:24h"}, repo.marked)
}

func TestProcessDueReminders_Idempotent(t *testing.T) {
	now := time.Date(2026, 9, 10, 14, 35, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)

	first, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalSent)

	// Same instant, no new interviews: the persisted flag keeps the
	// second run silent.
	second, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.TotalSent)
	assert.Equal(t, 1, notifier.pushCount())
}

func TestProcessDueReminders_FlagSticksWhenRecipientsChange(t *testing.T) {
	now := time.Date(2026, 9, 10, 14, 35, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	iv := repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	_, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)
	require.True(t, iv.Reminder24hSent)

	contacts.users = []string{testUserB, testUserC}
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TotalSent)
	assert.True(t, iv.Reminder24hSent)
}

func TestProcessDueReminders_PartialFailure(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	iv := repo.add(newTestInterview(0, now.Add(3*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA, testUserB, testUserC}}
	notifier := newFakeNotifier()
	notifier.failFor[testUserB] = errors.New("channel rejected")
	notifier.failFor[testUserC] = errors.New("timeout")

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	// One success is enough to persist the flag; the two failures are
	// reported as data.
	assert.Equal(t, 1, report.TotalSent)
	assert.Len(t, report.Errors, 2)
	assert.True(t, iv.Reminder3hSent)
}

func TestProcessDueReminders_ZeroSuccessLeavesFlagUnset(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	iv := repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA}}
	notifier := newFakeNotifier()
	notifier.failFor[testUserA] = errors.New("unreachable")

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalSent)
	assert.Len(t, report.Errors, 1)
	assert.False(t, iv.Reminder24hSent)
	assert.Empty(t, repo.marked)
}

func TestProcessDueReminders_MalformedRecipientNeverDispatched(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	contacts := &fakeContactRepo{users: []string{"Udeadbeef", testUserA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalSent)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], appErrors.ErrInvalidRecipient.Error())
	assert.Equal(t, []string{testUserA}, notifier.pushed)
}

func TestProcessDueReminders_SharedSetInvalidReportedOnce(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	repo.add(newTestInterview(0, now.Add(3*time.Hour)))
	contacts := &fakeContactRepo{users: []string{"Udeadbeef", testUserA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	// The malformed contact belongs to the cycle's shared set, so it
	// shows up once, not once per due interview.
	assert.Equal(t, 2, report.TotalSent)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], appErrors.ErrInvalidRecipient.Error())
}

func TestProcessDueReminders_BothWindowsInOnePass(t *testing.T) {
	// With an irregular trigger cadence an interview can satisfy both
	// windows at once only artificially; simulate it with one row in
	// each window plus one in both lists via two rows sharing recipients.
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	in24 := repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	in3 := repo.add(newTestInterview(0, now.Add(3*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalSent)
	assert.True(t, in24.Reminder24hSent)
	assert.False(t, in24.Reminder3hSent)
	assert.True(t, in3.Reminder3hSent)
	assert.False(t, in3.Reminder24hSent)
}

func TestProcessDueReminders_FetchFailureAbortsCycle(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	repo.findErr = errors.New("db down")
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, &fakeContactRepo{}, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDatabaseOperation)
	assert.Nil(t, report)
	assert.Zero(t, notifier.pushCount())
}

func TestProcessDueReminders_PersistFailureReportedNotRaised(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	repo.markErr = errors.New("disk full")
	contacts := &fakeContactRepo{users: []string{testUserA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	// Prefer a duplicate next cycle over a missed reminder: the send
	// counts, the persist failure rides along as an error string.
	assert.Equal(t, 1, report.TotalSent)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "persist")
}

func TestProcessDueReminders_ResolutionFailureReportedNotRaised(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	iv := repo.add(newTestInterview(0, now.Add(24*time.Hour)))
	contacts := &fakeContactRepo{listErr: errors.New("directory down")}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.ProcessDueReminders(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalSent)
	require.Len(t, report.Errors, 1)
	assert.False(t, iv.Reminder24hSent)
}

func TestBroadcastSchedule(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeInterviewRepo()
	iv := repo.add(newTestInterview(0, now.Add(48*time.Hour)))
	contacts := &fakeContactRepo{users: []string{testUserA}, groups: []string{testGroupA}}
	notifier := newFakeNotifier()

	svc := newTestReminderService(repo, contacts, notifier, now)
	report, err := svc.BroadcastSchedule(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalSent)
	assert.Empty(t, report.Errors)
	// Broadcast never touches reminder flags.
	assert.False(t, iv.Reminder24hSent)
	assert.False(t, iv.Reminder3hSent)
}

func TestFormatReminderMessage(t *testing.T) {
	iv := newTestInterview(5, time.Date(2026, 9, 11, 14, 30, 0, 0, time.UTC))
	iv.Reason = "第二輪技術面試"

	msg24 := formatReminderMessage(iv, 0)
	assert.True(t, strings.Contains(msg24, "24 小時"))
	assert.True(t, strings.Contains(msg24, iv.Interviewee))
	assert.True(t, strings.Contains(msg24, iv.Reason))
}
