package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-engine/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func datePtr(d domain.Date) *domain.Date { return &d }

// sat is Saturday 2024-01-06 at 10:00 UTC; tests run the engine in UTC so
// calendar dates line up with the fixture timestamps.
var sat = time.Date(2024, time.January, 6, 10, 0, 0, 0, time.UTC)

type scheduleFixture struct {
	svc         ScheduleService
	assignments *fakeAssignmentRepo
	sessions    *fakeSessionRepo
	users       *fakeUserRepo
	userID      primitive.ObjectID
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	assignments := &fakeAssignmentRepo{}
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()

	user := &domain.User{Name: "Ann", Email: "ann@example.com", Role: domain.RoleAthlete}
	userID, err := users.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return &scheduleFixture{
		svc:         NewScheduleService(assignments, sessions, users, time.UTC),
		assignments: assignments,
		sessions:    sessions,
		users:       users,
		userID:      userID,
	}
}

func (f *scheduleFixture) addWeekly(t *testing.T, planID primitive.ObjectID, days []int, start *domain.Date) primitive.ObjectID {
	t.Helper()
	a := &domain.Assignment{
		PlanID:         planID,
		UserID:         f.userID,
		ScheduleType:   domain.ScheduleWeekly,
		RecurrenceDays: days,
		StartDate:      start,
	}
	id, err := f.assignments.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return id
}

func (f *scheduleFixture) addOnce(t *testing.T, planID primitive.ObjectID, date domain.Date) primitive.ObjectID {
	t.Helper()
	a := &domain.Assignment{
		PlanID:        planID,
		UserID:        f.userID,
		ScheduleType:  domain.ScheduleOnce,
		ScheduledDate: &date,
	}
	id, err := f.assignments.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return id
}

func (f *scheduleFixture) completeSessionOn(t *testing.T, planID primitive.ObjectID, startedAt time.Time) {
	t.Helper()
	ended := startedAt.Add(45 * time.Minute)
	s := &domain.Session{
		UserID:    f.userID,
		PlanID:    planID,
		StartedAt: startedAt,
		EndedAt:   &ended,
		Status:    domain.SessionCompleted,
	}
	if _, err := f.sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func TestTodayIncludesWeekendPlanOnSaturday(t *testing.T) {
	f := newScheduleFixture(t)
	planID := primitive.NewObjectID()
	f.addWeekly(t, planID, []int{0, 6}, datePtr(mustDate(t, "2024-01-01")))

	got, err := f.svc.Today(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(got) != 1 || got[0].PlanID != planID {
		t.Fatalf("expected the weekend plan on Saturday, got %v", got)
	}

	// The following Monday excludes it.
	mon := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)
	got, err = f.svc.Today(context.Background(), f.userID, mon)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no occurrences on Monday, got %v", got)
	}
}

func TestTodayDedupesByPlanAndDate(t *testing.T) {
	f := newScheduleFixture(t)
	planID := primitive.NewObjectID()

	// Two distinct assignments resolving to the same (plan, date).
	first := f.addWeekly(t, planID, []int{6}, nil)
	f.addOnce(t, planID, mustDate(t, "2024-01-06"))

	got, err := f.svc.Today(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one entry for (plan, date), got %d", len(got))
	}
	if got[0].AssignmentID != first {
		t.Fatalf("expected the first assignment to win the dedupe")
	}
}

func TestTodayDropsCompletedPlans(t *testing.T) {
	f := newScheduleFixture(t)
	doneID := primitive.NewObjectID()
	pendingID := primitive.NewObjectID()
	f.addWeekly(t, doneID, []int{6}, nil)
	f.addWeekly(t, pendingID, []int{6}, nil)

	// Completed earlier today, local time.
	f.completeSessionOn(t, doneID, time.Date(2024, time.January, 6, 7, 30, 0, 0, time.UTC))
	// Completed yesterday: must not suppress today's occurrence.
	f.completeSessionOn(t, pendingID, time.Date(2024, time.January, 5, 7, 30, 0, 0, time.UTC))

	got, err := f.svc.Today(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(got) != 1 || got[0].PlanID != pendingID {
		t.Fatalf("expected only the pending plan, got %v", got)
	}
}

func TestThisWeekWindowAndOrdering(t *testing.T) {
	f := newScheduleFixture(t)
	planA := primitive.NewObjectID()
	planB := primitive.NewObjectID()
	f.addWeekly(t, planA, []int{1, 5}, nil) // Mon, Fri
	f.addOnce(t, planB, mustDate(t, "2024-01-09"))
	// Outside the Sunday..Saturday window containing Jan 6.
	f.addOnce(t, primitive.NewObjectID(), mustDate(t, "2024-01-14"))

	got, err := f.svc.ThisWeek(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("this week: %v", err)
	}

	// Jan 6 is a Saturday, so the window is Dec 31 (Sun) .. Jan 6 (Sat),
	// holding Mon Jan 1 and Fri Jan 5. Both once entries fall outside it.
	want := []string{"2024-01-01", "2024-01-05"}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].DisplayDate.String() != w {
			t.Fatalf("index %d: expected %s, got %s", i, w, got[i].DisplayDate)
		}
	}
}

func TestThisWeekMergesCoachPublishedSchedule(t *testing.T) {
	f := newScheduleFixture(t)

	coach := &domain.User{Name: "Coach", Email: "coach@example.com", Role: domain.RoleCoach}
	coachID, err := f.users.Create(context.Background(), coach)
	if err != nil {
		t.Fatalf("create coach: %v", err)
	}
	if err := f.users.SetCoachForAthlete(context.Background(), f.userID, coachID); err != nil {
		t.Fatalf("link coach: %v", err)
	}

	ownPlan := primitive.NewObjectID()
	f.addWeekly(t, ownPlan, []int{5}, nil) // Fri Jan 5

	publishedPlan := primitive.NewObjectID()
	published := &domain.Assignment{
		PlanID:         publishedPlan,
		UserID:         coachID,
		CoachID:        coachID,
		ScheduleType:   domain.ScheduleWeekly,
		RecurrenceDays: []int{3}, // Wed Jan 3
		Published:      true,
	}
	if _, err := f.assignments.Create(context.Background(), published); err != nil {
		t.Fatalf("create published assignment: %v", err)
	}
	// Unpublished coach entries never leak into athlete views.
	unpublished := &domain.Assignment{
		PlanID:         primitive.NewObjectID(),
		UserID:         coachID,
		CoachID:        coachID,
		ScheduleType:   domain.ScheduleWeekly,
		RecurrenceDays: []int{2},
	}
	if _, err := f.assignments.Create(context.Background(), unpublished); err != nil {
		t.Fatalf("create unpublished assignment: %v", err)
	}

	got, err := f.svc.ThisWeek(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("this week: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected merged week of 2 occurrences, got %d: %v", len(got), got)
	}
	if got[0].PlanID != publishedPlan || got[0].DisplayDate.String() != "2024-01-03" {
		t.Fatalf("expected published Wednesday first, got %v", got[0])
	}
	if got[1].PlanID != ownPlan || got[1].DisplayDate.String() != "2024-01-05" {
		t.Fatalf("expected own Friday second, got %v", got[1])
	}
}

func TestThisWeekIsDeterministic(t *testing.T) {
	f := newScheduleFixture(t)
	for i := 0; i < 4; i++ {
		f.addWeekly(t, primitive.NewObjectID(), []int{1, 3, 5}, nil)
	}

	first, err := f.svc.ThisWeek(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("this week: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := f.svc.ThisWeek(context.Background(), f.userID, sat)
		if err != nil {
			t.Fatalf("this week: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("membership changed between identical calls")
		}
		for j := range again {
			if again[j].PlanID != first[j].PlanID || !again[j].DisplayDate.Equal(first[j].DisplayDate) {
				t.Fatalf("order changed between identical calls at index %d", j)
			}
		}
	}
}

func TestUpcomingExcludesToday(t *testing.T) {
	f := newScheduleFixture(t)
	planID := primitive.NewObjectID()
	// Daily plan: occurrences would include today if it weren't excluded.
	f.addWeekly(t, planID, []int{0, 1, 2, 3, 4, 5, 6}, nil)

	got, err := f.svc.Upcoming(context.Background(), f.userID, sat)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("expected 7 upcoming days, got %d", len(got))
	}
	if got[0].DisplayDate.String() != "2024-01-07" {
		t.Fatalf("expected first upcoming to be tomorrow, got %s", got[0].DisplayDate)
	}
	if got[6].DisplayDate.String() != "2024-01-13" {
		t.Fatalf("expected last upcoming to be now+7, got %s", got[6].DisplayDate)
	}
}

func TestPastAnnotatesCompletion(t *testing.T) {
	f := newScheduleFixture(t)
	planID := primitive.NewObjectID()
	f.addWeekly(t, planID, []int{3}, nil) // Wednesdays

	// Completed the Jan 3 occurrence only.
	f.completeSessionOn(t, planID, time.Date(2024, time.January, 3, 18, 0, 0, 0, time.UTC))

	got, err := f.svc.Past(context.Background(), f.userID, sat, 14)
	if err != nil {
		t.Fatalf("past: %v", err)
	}
	// Window [Dec 23, Jan 5] holds Wednesdays Dec 27 and Jan 3.
	if len(got) != 2 {
		t.Fatalf("expected 2 past occurrences, got %d: %v", len(got), got)
	}
	if got[0].DisplayDate.String() != "2023-12-27" || got[0].Completed == nil || *got[0].Completed {
		t.Fatalf("expected Dec 27 uncompleted, got %v", got[0])
	}
	if got[1].DisplayDate.String() != "2024-01-03" || got[1].Completed == nil || !*got[1].Completed {
		t.Fatalf("expected Jan 3 completed, got %v", got[1])
	}
}

func TestIsCompletedOnDateIsIdempotent(t *testing.T) {
	f := newScheduleFixture(t)
	planID := primitive.NewObjectID()
	f.completeSessionOn(t, planID, time.Date(2024, time.January, 6, 9, 0, 0, 0, time.UTC))

	date := mustDate(t, "2024-01-06")
	for i := 0; i < 3; i++ {
		done, err := f.svc.IsCompletedOnDate(context.Background(), f.userID, planID, date)
		if err != nil {
			t.Fatalf("is completed: %v", err)
		}
		if !done {
			t.Fatalf("call %d: expected completed", i)
		}
	}

	other, err := f.svc.IsCompletedOnDate(context.Background(), f.userID, planID, mustDate(t, "2024-01-07"))
	if err != nil {
		t.Fatalf("is completed: %v", err)
	}
	if other {
		t.Fatal("expected adjacent day to be uncompleted")
	}
}
