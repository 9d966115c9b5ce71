package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/models"
	"github.com/hammaslab/workcard-api/internal/repository"
)

// In-memory repository fakes used across the service tests. They honor the
// same not-found semantics as the GORM implementations.

type memCourseRepo struct {
	courses []models.Course
}

func newMemCourseRepo() *memCourseRepo { return &memCourseRepo{} }

func (r *memCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]models.Course, error) {
	var out []models.Course
	for _, course := range r.courses {
		if len(filter.Visibilities) > 0 && !containsString(filter.Visibilities, course.Visibility) {
			continue
		}
		if filter.Status != "" && course.Status != filter.Status {
			continue
		}
		if filter.Subject != "" && course.Subject != filter.Subject {
			continue
		}
		out = append(out, course)
	}
	return out, nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id string) (models.Course, error) {
	for _, course := range r.courses {
		if course.ID == id {
			return course, nil
		}
	}
	return models.Course{}, gorm.ErrRecordNotFound
}

func (r *memCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.courses = append(r.courses, *course)
	return nil
}

func (r *memCourseRepo) CreateBatch(_ context.Context, courses []models.Course) error {
	r.courses = append(r.courses, courses...)
	return nil
}

func (r *memCourseRepo) Update(_ context.Context, course *models.Course) error {
	for i := range r.courses {
		if r.courses[i].ID == course.ID {
			r.courses[i] = *course
			return nil
		}
	}
	r.courses = append(r.courses, *course)
	return nil
}

func (r *memCourseRepo) Delete(_ context.Context, id string) error {
	for i := range r.courses {
		if r.courses[i].ID == id {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.courses)), nil
}

func (r *memCourseRepo) CountBySubject(_ context.Context, subject string) (int64, error) {
	var total int64
	for _, course := range r.courses {
		if course.Subject == subject {
			total++
		}
	}
	return total, nil
}

type memWorkCardRepo struct {
	cards []models.WorkCard
}

func newMemWorkCardRepo() *memWorkCardRepo { return &memWorkCardRepo{} }

func (r *memWorkCardRepo) List(_ context.Context) ([]models.WorkCard, error) {
	out := make([]models.WorkCard, len(r.cards))
	copy(out, r.cards)
	return out, nil
}

func (r *memWorkCardRepo) ListByCourse(_ context.Context, courseID string) ([]models.WorkCard, error) {
	var out []models.WorkCard
	for _, card := range r.cards {
		if card.CourseID == courseID && card.Status == models.WorkCardStatusActive {
			out = append(out, card)
		}
	}
	return out, nil
}

func (r *memWorkCardRepo) GetByID(_ context.Context, id string) (models.WorkCard, error) {
	for _, card := range r.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return models.WorkCard{}, gorm.ErrRecordNotFound
}

func (r *memWorkCardRepo) Create(_ context.Context, card *models.WorkCard) error {
	r.cards = append(r.cards, *card)
	return nil
}

func (r *memWorkCardRepo) Update(_ context.Context, card *models.WorkCard) error {
	for i := range r.cards {
		if r.cards[i].ID == card.ID {
			r.cards[i] = *card
			return nil
		}
	}
	r.cards = append(r.cards, *card)
	return nil
}

func (r *memWorkCardRepo) Delete(_ context.Context, id string) error {
	for i := range r.cards {
		if r.cards[i].ID == id {
			r.cards = append(r.cards[:i], r.cards[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memTaskRepo struct {
	tasks       []models.Task
	subs        *memSubmissionRepo
	nextMessage uint
}

func newMemTaskRepo(subs *memSubmissionRepo) *memTaskRepo {
	return &memTaskRepo{subs: subs}
}

func (r *memTaskRepo) List(_ context.Context) ([]models.Task, error) {
	out := make([]models.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (models.Task, error) {
	for _, task := range r.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (r *memTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *memTaskRepo) CreateBatch(_ context.Context, tasks []models.Task) error {
	r.tasks = append(r.tasks, tasks...)
	return nil
}

func (r *memTaskRepo) Update(_ context.Context, task *models.Task) error {
	return r.save(task)
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memTaskRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.tasks)), nil
}

func (r *memTaskRepo) Submit(_ context.Context, task *models.Task, message *models.ConversationMessage, submission *models.TaskSubmission) error {
	if err := r.save(task); err != nil {
		return err
	}
	r.appendMessage(task.ID, message)
	r.subs.add(submission)
	return nil
}

func (r *memTaskRepo) Review(_ context.Context, task *models.Task, message *models.ConversationMessage, submission *models.TaskSubmission) error {
	if err := r.save(task); err != nil {
		return err
	}
	r.appendMessage(task.ID, message)
	if submission != nil {
		r.subs.update(submission)
	}
	return nil
}

// save mirrors the GORM repository's Omit("Conversation") behavior: the
// stored conversation is never touched by a plain task update.
func (r *memTaskRepo) save(task *models.Task) error {
	for i := range r.tasks {
		if r.tasks[i].ID == task.ID {
			conversation := r.tasks[i].Conversation
			r.tasks[i] = *task
			r.tasks[i].Conversation = conversation
			return nil
		}
	}
	stored := *task
	stored.Conversation = nil
	r.tasks = append(r.tasks, stored)
	return nil
}

func (r *memTaskRepo) appendMessage(taskID string, message *models.ConversationMessage) {
	r.nextMessage++
	message.ID = r.nextMessage
	for i := range r.tasks {
		if r.tasks[i].ID == taskID {
			r.tasks[i].Conversation = append(r.tasks[i].Conversation, *message)
			return
		}
	}
}

type memSubmissionRepo struct {
	submissions []models.TaskSubmission
	nextID      uint
}

func newMemSubmissionRepo() *memSubmissionRepo { return &memSubmissionRepo{} }

func (r *memSubmissionRepo) add(submission *models.TaskSubmission) {
	r.nextID++
	submission.ID = r.nextID
	r.submissions = append(r.submissions, *submission)
}

func (r *memSubmissionRepo) update(submission *models.TaskSubmission) {
	for i := range r.submissions {
		if r.submissions[i].ID == submission.ID {
			r.submissions[i] = *submission
			return
		}
	}
}

func (r *memSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.TaskSubmission, error) {
	var out []models.TaskSubmission
	for _, submission := range r.submissions {
		if filter.TaskID != "" && submission.TaskID != filter.TaskID {
			continue
		}
		if filter.StudentID != "" && submission.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && submission.Status != filter.Status {
			continue
		}
		out = append(out, submission)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionDate.Before(out[j].SubmissionDate)
	})
	return out, nil
}

func (r *memSubmissionRepo) LatestForTaskAndStudent(_ context.Context, taskID, studentID string) (models.TaskSubmission, error) {
	var latest models.TaskSubmission
	found := false
	for _, submission := range r.submissions {
		if submission.TaskID != taskID || submission.StudentID != studentID {
			continue
		}
		if !found ||
			submission.SubmissionDate.After(latest.SubmissionDate) ||
			(submission.SubmissionDate.Equal(latest.SubmissionDate) && submission.ID > latest.ID) {
			latest = submission
			found = true
		}
	}
	if !found {
		return models.TaskSubmission{}, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *memSubmissionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.submissions)), nil
}

type memNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (r *memNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.nextID++
	notification.ID = r.nextID
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id uint, userID string) (models.Notification, error) {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return r.notifications[i], nil
		}
	}
	return models.Notification{}, gorm.ErrRecordNotFound
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
