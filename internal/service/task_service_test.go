package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammaslab/workcard-api/internal/dto"
	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

type invalidatorSpy struct {
	calls int
}

func (s *invalidatorSpy) Invalidate(context.Context) { s.calls++ }

type notifierSpy struct {
	studentIDs []string
	decisions  []string
}

func (s *notifierSpy) NotifyReview(_ context.Context, studentID, _, _, decision string) {
	s.studentIDs = append(s.studentIDs, studentID)
	s.decisions = append(s.decisions, decision)
}

type taskServiceFixture struct {
	svc         TaskService
	tasks       *memTaskRepo
	submissions *memSubmissionRepo
	invalidator *invalidatorSpy
	notifier    *notifierSpy
	clock       *time.Time
}

func newTaskServiceForTest(t *testing.T) *taskServiceFixture {
	t.Helper()

	submissions := newMemSubmissionRepo()
	tasks := newMemTaskRepo(submissions)
	invalidator := &invalidatorSpy{}
	notifier := &notifierSpy{}

	svc := NewTaskService(tasks, submissions, validator.New(), invalidator, notifier, zerolog.Nop())

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := &start
	svc.(*taskService).now = func() time.Time { return *clock }

	return &taskServiceFixture{
		svc:         svc,
		tasks:       tasks,
		submissions: submissions,
		invalidator: invalidator,
		notifier:    notifier,
		clock:       clock,
	}
}

func (f *taskServiceFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func submitRequest(studentID string) dto.TaskSubmitRequest {
	return dto.TaskSubmitRequest{
		CompletionDate: "2026-03-10",
		SelfAssessment: "Preparaatio onnistui hyvin",
		StudentID:      studentID,
		StudentName:    "Maija Meikalainen",
	}
}

func TestSubmitMovesTaskToSubmitted(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Amalgaamipaikka"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusNotStarted, created.Status)
	assert.Equal(t, 0, created.Progress)

	submitted, err := f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusSubmitted, submitted.Status)
	assert.Equal(t, 50, submitted.Progress)
	assert.Equal(t, "2026-03-10", submitted.CompletionDate)

	require.Len(t, submitted.Conversation, 1)
	assert.Equal(t, models.SenderStudent, submitted.Conversation[0].Sender)
	assert.Equal(t, models.MessageTypeSubmission, submitted.Conversation[0].Type)

	snapshots, err := f.submissions.List(ctx, repository.SubmissionFilter{TaskID: created.ID})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "student-1", snapshots[0].StudentID)
	assert.Equal(t, models.TaskStatusSubmitted, snapshots[0].Status)

	assert.Equal(t, 1, f.invalidator.calls)
}

func TestSubmitSanitizesSelfAssessment(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Fluorikasittely"})
	require.NoError(t, err)

	payload := submitRequest("student-1")
	payload.SelfAssessment = `Onnistui <script>alert("x")</script>hyvin`

	submitted, err := f.svc.Submit(ctx, created.ID, payload)
	require.NoError(t, err)
	assert.NotContains(t, submitted.SelfAssessment, "<script>")
	assert.Contains(t, submitted.SelfAssessment, "Onnistui")
}

func TestSubmitOnApprovedTaskRejected(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Hampaan poisto"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, created.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusApproved,
		TeacherFeedback: "Hyvaksytty",
		TeacherName:     "Opettaja Virtanen",
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	assert.ErrorIs(t, err, ErrTaskAlreadyApproved)
}

func TestReviewNeedsCorrectionsAndResubmission(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Juurihoidon aloitus"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	require.NoError(t, err)

	f.advance(time.Hour)
	reviewed, err := f.svc.Review(ctx, created.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusNeedsCorrections,
		TeacherFeedback: "Tarkista tyoskentelyjarjestys",
		TeacherName:     "Opettaja Virtanen",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusNeedsCorrections, reviewed.Status)
	assert.Equal(t, 25, reviewed.Progress)
	assert.NotEmpty(t, reviewed.FeedbackDate)
	_, parseErr := time.Parse(time.RFC3339, reviewed.FeedbackDate)
	assert.NoError(t, parseErr)

	require.Len(t, reviewed.Conversation, 2)
	assert.Equal(t, models.SenderTeacher, reviewed.Conversation[1].Sender)
	assert.Equal(t, models.MessageTypeFeedback, reviewed.Conversation[1].Type)

	// The snapshot carries the decision too.
	latest, err := f.submissions.LatestForTaskAndStudent(ctx, created.ID, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusNeedsCorrections, latest.Status)
	assert.Equal(t, "Tarkista tyoskentelyjarjestys", latest.TeacherFeedback)

	// Resubmission appends a resubmission-typed message and a second snapshot.
	f.advance(time.Hour)
	resubmitted, err := f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusSubmitted, resubmitted.Status)
	require.Len(t, resubmitted.Conversation, 3)
	assert.Equal(t, models.MessageTypeResubmission, resubmitted.Conversation[2].Type)

	history, err := f.svc.SubmissionsForTask(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.TaskStatusNeedsCorrections, history[0].Status)
	assert.Equal(t, models.TaskStatusSubmitted, history[1].Status)
}

func TestReviewApprovedRecordsApprover(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Yhdistelmamuovipaikka"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	require.NoError(t, err)

	approved, err := f.svc.Review(ctx, created.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusApproved,
		TeacherFeedback: "Siisti lopputulos",
		TeacherName:     "Opettaja Virtanen",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusApproved, approved.Status)
	assert.Equal(t, 100, approved.Progress)
	assert.Equal(t, "Opettaja Virtanen", approved.ApprovedBy)

	require.Equal(t, []string{"student-1"}, f.notifier.studentIDs)
	require.Equal(t, []string{models.TaskStatusApproved}, f.notifier.decisions)
}

func TestReviewRequiresPendingSubmission(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Amalgaamipaikka"})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, created.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusApproved,
		TeacherFeedback: "Hyvaksytty",
	})
	assert.ErrorIs(t, err, ErrTaskNotPending)
}

func TestReviewOnlyUpdatesMatchingStudentSnapshot(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Hampaan poisto"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, created.ID, submitRequest("student-1"))
	require.NoError(t, err)

	// A second student's earlier snapshot of the same task.
	f.submissions.add(&models.TaskSubmission{
		TaskID:         created.ID,
		StudentID:      "student-2",
		SubmissionDate: f.clock.Add(-time.Hour),
		Status:         models.TaskStatusSubmitted,
	})

	_, err = f.svc.Review(ctx, created.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusApproved,
		TeacherFeedback: "Hyvaksytty",
	})
	require.NoError(t, err)

	other, err := f.submissions.LatestForTaskAndStudent(ctx, created.ID, "student-2")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusSubmitted, other.Status)
	assert.Empty(t, other.TeacherFeedback)
}

func TestReviewProceedsWithoutSnapshot(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Fluorikasittely"})
	require.NoError(t, err)

	// Force the task into the submitted state without a snapshot.
	task, err := f.tasks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	task.Status = models.TaskStatusSubmitted
	require.NoError(t, f.tasks.Update(ctx, &task))

	reviewed, err := f.svc.Review(ctx, created.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusNeedsCorrections,
		TeacherFeedback: "Puutteellinen kirjaus",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusNeedsCorrections, reviewed.Status)
}

func TestPendingSubmissionsListsOnlySubmitted(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Amalgaamipaikka"})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Hampaan poisto"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, first.ID, submitRequest("student-1"))
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.svc.Submit(ctx, second.ID, submitRequest("student-2"))
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, first.ID, dto.TaskReviewRequest{
		StudentID:       "student-1",
		Decision:        models.TaskStatusApproved,
		TeacherFeedback: "Hyvaksytty",
	})
	require.NoError(t, err)

	pending, err := f.svc.PendingSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].TaskID)
	assert.Equal(t, "student-2", pending[0].StudentID)
}

func TestTaskUpdateAndDelete(t *testing.T) {
	f := newTaskServiceForTest(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, dto.TaskCreateRequest{Name: "Vanha nimi"})
	require.NoError(t, err)

	name := "Uusi nimi"
	updated, err := f.svc.Update(ctx, created.ID, dto.TaskUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Uusi nimi", updated.Name)
	assert.Equal(t, models.TaskStatusNotStarted, updated.Status)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), ErrTaskNotFound)
}
