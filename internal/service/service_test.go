package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
	"github.com/Freeeeeet/college_scheduler/internal/repository/memory"
)

type recordingNotifier struct {
	mu     sync.Mutex
	scopes []notify.Scope
}

func (n *recordingNotifier) Notify(_ context.Context, scope notify.Scope) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scopes = append(n.scopes, scope)
}

func (n *recordingNotifier) last() notify.Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.scopes) == 0 {
		return notify.ScopeNone
	}
	return n.scopes[len(n.scopes)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.scopes)
}

type recordingMetrics struct {
	mu  sync.Mutex
	ops map[string]bool
}

func (m *recordingMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op] = success
}

// hangingStore ждёт отмены контекста в каждой транзакции
type hangingStore struct {
	*memory.Store
}

func (s hangingStore) RunInTransaction(ctx context.Context, _ func(repository.Tx) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestService(t *testing.T, opts ...Option) (*ScheduleService, *memory.Store, *recordingNotifier) {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	return NewScheduleService(store, notifier, zap.NewNop(), opts...), store, notifier
}

func TestAddAssignsFreshUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
		require.NoError(t, err)
		_, dup := seen[teacher.ID]
		require.False(t, dup, "id %s reused", teacher.ID)
		seen[teacher.ID] = struct{}{}
	}
	assert.Len(t, svc.GetTeachers(ctx), 20)
}

func TestAddTeacherValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	for _, form := range []Form{{}, {FieldName: ""}, {FieldName: "   "}} {
		_, err := svc.AddTeacher(ctx, form)
		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
		assert.Equal(t, model.Result{Success: false, Error: "Name is required"}, model.ResultOf(err))
	}

	assert.Empty(t, svc.GetTeachers(ctx))
	assert.Zero(t, notifier.count())
}

func TestAddTrimsValues(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	class, err := svc.AddClass(ctx, Form{FieldName: "  Room A ", FieldRoomNumber: " 101"})
	require.NoError(t, err)
	assert.Equal(t, "Room A", class.Name)
	assert.Equal(t, "101", class.RoomNumber)
}

func TestAddClassValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.AddClass(ctx, Form{FieldName: "Room A"})
	assert.Equal(t, "Name and room number are required", model.ResultOf(err).Error)
	assert.Empty(t, svc.GetClasses(ctx))
}

func TestAddCourseRequiresExistingTeacher(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.AddCourse(ctx, Form{FieldName: "CS101"})
	assert.Equal(t, "Name and teacher are required", model.ResultOf(err).Error)

	_, err = svc.AddCourse(ctx, Form{FieldName: "CS101", FieldTeacherID: "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrReference)
	assert.Empty(t, svc.GetCourses(ctx))
}

func TestAddScheduleItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	course, err := svc.AddCourse(ctx, Form{FieldName: "CS101", FieldTeacherID: teacher.ID})
	require.NoError(t, err)
	class, err := svc.AddClass(ctx, Form{FieldName: "Room A", FieldRoomNumber: "101"})
	require.NoError(t, err)

	valid := Form{
		FieldDay:       "Monday",
		FieldStartTime: "09:00",
		FieldEndTime:   "10:30",
		FieldCourseID:  course.ID,
		FieldClassID:   class.ID,
	}

	tests := []struct {
		name    string
		mutate  func(Form)
		wantErr string
		refErr  bool
	}{
		{
			name:    "missing day",
			mutate:  func(f Form) { delete(f, FieldDay) },
			wantErr: "All fields are required",
		},
		{
			name:    "empty class",
			mutate:  func(f Form) { f[FieldClassID] = "" },
			wantErr: "All fields are required",
		},
		{
			name:    "sunday",
			mutate:  func(f Form) { f[FieldDay] = "Sunday" },
			wantErr: "day must be one of Monday, Tuesday, Wednesday, Thursday, Friday, Saturday",
		},
		{
			name:    "bad start time",
			mutate:  func(f Form) { f[FieldStartTime] = "9am" },
			wantErr: "startTime must be a time in HH:MM format",
		},
		{
			name:   "unknown course",
			mutate: func(f Form) { f[FieldCourseID] = "ghost" },
			refErr: true,
		},
		{
			name:   "unknown class",
			mutate: func(f Form) { f[FieldClassID] = "ghost" },
			refErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := Form{}
			for k, v := range valid {
				form[k] = v
			}
			tt.mutate(form)

			_, err := svc.AddScheduleItem(ctx, form)
			require.Error(t, err)
			if tt.refErr {
				assert.ErrorIs(t, err, model.ErrReference)
			} else {
				assert.Equal(t, tt.wantErr, model.ResultOf(err).Error)
			}
		})
	}
	assert.Empty(t, svc.GetScheduleItems(ctx))

	// начало после конца допустимо
	form := Form{}
	for k, v := range valid {
		form[k] = v
	}
	form[FieldStartTime] = "15:00"
	form[FieldEndTime] = "08:00"
	_, err = svc.AddScheduleItem(ctx, form)
	assert.NoError(t, err)
}

func TestAddThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Grace Hopper"})
	require.NoError(t, err)
	assert.Equal(t, []model.Teacher{teacher}, svc.GetTeachers(ctx))

	course, err := svc.AddCourse(ctx, Form{FieldName: "Compilers", FieldTeacherID: teacher.ID})
	require.NoError(t, err)
	assert.Equal(t, []model.Course{{ID: course.ID, Name: "Compilers", TeacherID: teacher.ID}}, svc.GetCourses(ctx))
}

func TestEndToEndSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, WithIDGenerator(sequentialIDs()))

	teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	course, err := svc.AddCourse(ctx, Form{FieldName: "CS101", FieldTeacherID: teacher.ID})
	require.NoError(t, err)
	class, err := svc.AddClass(ctx, Form{FieldName: "Room A", FieldRoomNumber: "101"})
	require.NoError(t, err)
	item, err := svc.AddScheduleItem(ctx, Form{
		FieldDay:       "Monday",
		FieldStartTime: "09:00",
		FieldEndTime:   "10:30",
		FieldCourseID:  course.ID,
		FieldClassID:   class.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, []model.ScheduleEntry{{
		ID:        item.ID,
		Day:       model.Monday,
		StartTime: "09:00",
		EndTime:   "10:30",
		CourseID:  course.ID,
		ClassID:   class.ID,
		Course:    "CS101",
		Teacher:   "Ada",
		Class:     "Room A (Room 101)",
	}}, svc.GetSchedule(ctx))
}

func TestDeleteTeacherCascades(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	ada, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	grace, err := svc.AddTeacher(ctx, Form{FieldName: "Grace"})
	require.NoError(t, err)
	class, err := svc.AddClass(ctx, Form{FieldName: "Lab", FieldRoomNumber: "7"})
	require.NoError(t, err)

	var adaCourses []model.Course
	for _, name := range []string{"CS101", "CS102"} {
		c, err := svc.AddCourse(ctx, Form{FieldName: name, FieldTeacherID: ada.ID})
		require.NoError(t, err)
		adaCourses = append(adaCourses, c)
	}
	graceCourse, err := svc.AddCourse(ctx, Form{FieldName: "COBOL", FieldTeacherID: grace.ID})
	require.NoError(t, err)

	for _, c := range append(adaCourses, graceCourse) {
		_, err := svc.AddScheduleItem(ctx, Form{
			FieldDay: "Tuesday", FieldStartTime: "08:00", FieldEndTime: "09:00",
			FieldCourseID: c.ID, FieldClassID: class.ID,
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteTeacher(ctx, ada.ID))

	assert.Equal(t, []model.Teacher{grace}, svc.GetTeachers(ctx))
	assert.Equal(t, []model.Course{graceCourse}, svc.GetCourses(ctx))
	items := svc.GetScheduleItems(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, graceCourse.ID, items[0].CourseID)

	assert.Equal(t, notify.ScopeTeachers|notify.ScopeCourses|notify.ScopeSchedule, notifier.last())
}

func TestDeleteCourseCascades(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	course, err := svc.AddCourse(ctx, Form{FieldName: "CS101", FieldTeacherID: teacher.ID})
	require.NoError(t, err)
	class, err := svc.AddClass(ctx, Form{FieldName: "Lab", FieldRoomNumber: "7"})
	require.NoError(t, err)
	for _, day := range []string{"Monday", "Friday"} {
		_, err := svc.AddScheduleItem(ctx, Form{
			FieldDay: day, FieldStartTime: "10:00", FieldEndTime: "11:00",
			FieldCourseID: course.ID, FieldClassID: class.ID,
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))

	assert.Empty(t, svc.GetCourses(ctx))
	assert.Empty(t, svc.GetScheduleItems(ctx))
	assert.Equal(t, []model.Teacher{teacher}, svc.GetTeachers(ctx))
	assert.Equal(t, notify.ScopeCourses|notify.ScopeSchedule, notifier.last())
}

func TestDeleteClassLeavesItemsDangling(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	course, err := svc.AddCourse(ctx, Form{FieldName: "CS101", FieldTeacherID: teacher.ID})
	require.NoError(t, err)
	class, err := svc.AddClass(ctx, Form{FieldName: "Lab", FieldRoomNumber: "7"})
	require.NoError(t, err)
	item, err := svc.AddScheduleItem(ctx, Form{
		FieldDay: "Monday", FieldStartTime: "10:00", FieldEndTime: "11:00",
		FieldCourseID: course.ID, FieldClassID: class.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClass(ctx, class.ID))

	assert.Equal(t, []model.ScheduleItem{item}, svc.GetScheduleItems(ctx))
	schedule := svc.GetSchedule(ctx)
	require.Len(t, schedule, 1)
	assert.Equal(t, model.UnknownClass, schedule[0].Class)
	assert.Equal(t, "CS101", schedule[0].Course)
	assert.Equal(t, "Ada", schedule[0].Teacher)
}

func TestDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	for name, del := range map[string]func(context.Context, string) error{
		"teacher":       svc.DeleteTeacher,
		"course":        svc.DeleteCourse,
		"class":         svc.DeleteClass,
		"schedule item": svc.DeleteScheduleItem,
	} {
		err := del(ctx, "ghost")
		assert.ErrorIs(t, err, model.ErrNotFound, name)
		assert.Equal(t, fmt.Sprintf("%s %q not found", name, "ghost"), model.ResultOf(err).Error)
	}

	err := svc.DeleteTeacher(ctx, " ")
	assert.Equal(t, "ID is required", model.ResultOf(err).Error)
	assert.Zero(t, notifier.count())
}

func TestScheduleToleratesDanglingReferences(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	require.NoError(t, store.Courses().Put(ctx, model.Course{ID: "c1", Name: "Orphan", TeacherID: "gone"}))
	require.NoError(t, store.ScheduleItems().Put(ctx, model.ScheduleItem{
		ID: "s1", Day: model.Wednesday, StartTime: "12:00", EndTime: "13:00", CourseID: "c1", ClassID: "gone",
	}))
	require.NoError(t, store.ScheduleItems().Put(ctx, model.ScheduleItem{
		ID: "s2", Day: model.Thursday, StartTime: "12:00", EndTime: "13:00", CourseID: "gone", ClassID: "gone",
	}))

	schedule := svc.GetSchedule(ctx)
	require.Len(t, schedule, 2)

	assert.Equal(t, "s1", schedule[0].ID)
	assert.Equal(t, "Orphan", schedule[0].Course)
	assert.Equal(t, model.UnknownTeacher, schedule[0].Teacher)
	assert.Equal(t, model.UnknownClass, schedule[0].Class)

	assert.Equal(t, "s2", schedule[1].ID)
	assert.Equal(t, model.UnknownCourse, schedule[1].Course)
	assert.Equal(t, model.UnknownTeacher, schedule[1].Teacher)
}

func TestReadsDegradeToEmpty(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	_, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NotNil(t, svc.GetTeachers(ctx))
	assert.Empty(t, svc.GetTeachers(ctx))
	assert.Empty(t, svc.GetCourses(ctx))
	assert.Empty(t, svc.GetClasses(ctx))
	assert.Empty(t, svc.GetScheduleItems(ctx))
	assert.NotNil(t, svc.GetSchedule(ctx))
	assert.Empty(t, svc.GetSchedule(ctx))

	_, err = svc.AddTeacher(ctx, Form{FieldName: "Grace"})
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.Equal(t, "Storage is unavailable, please try again later", model.ResultOf(err).Error)
}

func TestTimeoutReportsUnavailable(t *testing.T) {
	ctx := context.Background()
	store := hangingStore{Store: memory.NewStore()}
	notifier := &recordingNotifier{}
	svc := NewScheduleService(store, notifier, zap.NewNop(), WithTimeout(20*time.Millisecond))

	err := svc.DeleteCourse(ctx, "c1")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.Empty(t, svc.GetSchedule(ctx))
	assert.Zero(t, notifier.count())
}

func TestNotificationScopes(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newTestService(t)

	teacher, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, notify.ScopeTeachers, notifier.last())

	course, err := svc.AddCourse(ctx, Form{FieldName: "CS101", FieldTeacherID: teacher.ID})
	require.NoError(t, err)
	assert.Equal(t, notify.ScopeCourses, notifier.last())

	class, err := svc.AddClass(ctx, Form{FieldName: "Lab", FieldRoomNumber: "7"})
	require.NoError(t, err)
	assert.Equal(t, notify.ScopeClasses, notifier.last())

	item, err := svc.AddScheduleItem(ctx, Form{
		FieldDay: "Saturday", FieldStartTime: "14:00", FieldEndTime: "15:00",
		FieldCourseID: course.ID, FieldClassID: class.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, notify.ScopeSchedule, notifier.last())

	require.NoError(t, svc.DeleteScheduleItem(ctx, item.ID))
	assert.Equal(t, notify.ScopeSchedule, notifier.last())

	// без занятий каскад затрагивает только курсы
	require.NoError(t, svc.DeleteTeacher(ctx, teacher.ID))
	assert.Equal(t, notify.ScopeTeachers|notify.ScopeCourses, notifier.last())

	assert.Equal(t, 6, notifier.count())
}

func TestMetricsObserved(t *testing.T) {
	ctx := context.Background()
	metrics := &recordingMetrics{ops: make(map[string]bool)}
	svc, _, _ := newTestService(t, WithMetrics(metrics))

	_, err := svc.AddTeacher(ctx, Form{FieldName: "Ada"})
	require.NoError(t, err)
	_ = svc.DeleteClass(ctx, "ghost")
	svc.GetClasses(ctx)

	assert.Equal(t, map[string]bool{
		"add_teacher":  true,
		"delete_class": false,
		"get_classes":  true,
	}, metrics.ops)
}
