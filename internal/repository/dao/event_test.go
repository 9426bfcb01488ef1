package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

// TestMain starts a throwaway Postgres container for the DAO tests. When no
// Docker daemon is reachable the whole package is skipped.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping dao tests: dockertest.NewPool: %v", err)
		return
	}
	if err = pool.Client.Ping(); err != nil {
		log.Printf("skipping dao tests: docker not available: %v", err)
		return
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=campus_events_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=test password=test dbname=campus_events_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()

	err := testDB.Exec("TRUNCATE users, events, rsvps, waitlist_entries, attendances, feedbacks RESTART IDENTITY").Error
	require.NoError(t, err)
}

func insertTestEvent(t *testing.T, capacity int) Event {
	t.Helper()

	event, err := NewEventDAO(testDB).Insert(context.Background(), Event{
		Title:       "Integration Night",
		StartTime:   time.Now().Add(24 * time.Hour),
		Location:    "Main Hall",
		MaxCapacity: capacity,
		OrganizerID: 1,
		CheckInCode: "code123",
	})
	require.NoError(t, err)

	return event
}

func TestAdmitRSVP_ConfirmsUntilFullThenWaitlists(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)
	event := insertTestEvent(t, 2)

	for _, userID := range []uint{10, 11} {
		outcome, err := d.AdmitRSVP(context.Background(), event.ID, userID)
		require.NoError(t, err)
		assert.True(t, outcome.Confirmed)
	}

	outcome, err := d.AdmitRSVP(context.Background(), event.ID, 12)
	require.NoError(t, err)
	assert.False(t, outcome.Confirmed)
	assert.Equal(t, 3, outcome.Position)

	outcome, err = d.AdmitRSVP(context.Background(), event.ID, 13)
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.Position)
}

func TestAdmitRSVP_DuplicatesRejected(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)
	event := insertTestEvent(t, 1)

	_, err := d.AdmitRSVP(context.Background(), event.ID, 10)
	require.NoError(t, err)
	_, err = d.AdmitRSVP(context.Background(), event.ID, 10)
	assert.ErrorIs(t, err, ErrAlreadyRSVPed)

	// 11 lands on the waitlist; a retry must not move or duplicate them.
	_, err = d.AdmitRSVP(context.Background(), event.ID, 11)
	require.NoError(t, err)
	_, err = d.AdmitRSVP(context.Background(), event.ID, 11)
	assert.ErrorIs(t, err, ErrAlreadyWaitlisted)
}

func TestAdmitRSVP_UnknownEvent(t *testing.T) {
	truncateAll(t)

	_, err := NewEventDAO(testDB).AdmitRSVP(context.Background(), 404, 10)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestAdmitRSVP_CapacityHeldUnderConcurrency(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)
	event := insertTestEvent(t, 5)

	const attempts = 20

	var wg sync.WaitGroup
	outcomes := make([]AdmissionOutcome, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = d.AdmitRSVP(context.Background(), event.ID, uint(100+i))
		}(i)
	}
	wg.Wait()

	var confirmed int
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		if outcomes[i].Confirmed {
			confirmed++
		}
	}
	assert.Equal(t, 5, confirmed)

	var rsvpRows int64
	require.NoError(t, testDB.Model(&RSVP{}).Where("event_id = ?", event.ID).Count(&rsvpRows).Error)
	assert.Equal(t, int64(5), rsvpRows)

	var waitlistRows int64
	require.NoError(t, testDB.Model(&WaitlistEntry{}).Where("event_id = ?", event.ID).Count(&waitlistRows).Error)
	assert.Equal(t, int64(attempts-5), waitlistRows)
}

func TestInsertAttendance_OncePerUser(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)
	event := insertTestEvent(t, 5)

	require.NoError(t, d.InsertAttendance(context.Background(), event.ID, 10))

	has, err := d.HasAttendance(context.Background(), event.ID, 10)
	require.NoError(t, err)
	assert.True(t, has)

	err = d.InsertAttendance(context.Background(), event.ID, 10)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestInsertFeedback_OncePerUser(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)
	event := insertTestEvent(t, 5)

	_, err := d.InsertFeedback(context.Background(), Feedback{EventID: event.ID, UserID: 10, Rating: 4})
	require.NoError(t, err)

	_, err = d.InsertFeedback(context.Background(), Feedback{EventID: event.ID, UserID: 10, Rating: 2})
	assert.ErrorIs(t, err, ErrFeedbackExists)
}

func TestListWithStats(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)

	organizer, err := NewUserDAO(testDB).Insert(context.Background(), User{
		Email:    "dana@campus.edu",
		Password: "hash",
		Name:     "Dana",
		Role:     "organizer",
	})
	require.NoError(t, err)

	event, err := d.Insert(context.Background(), Event{
		Title:       "Stats Night",
		StartTime:   time.Now().Add(24 * time.Hour),
		Location:    "Main Hall",
		MaxCapacity: 10,
		OrganizerID: organizer.ID,
		CheckInCode: "code123",
	})
	require.NoError(t, err)

	for _, userID := range []uint{10, 11} {
		_, err = d.AdmitRSVP(context.Background(), event.ID, userID)
		require.NoError(t, err)
	}

	rows, err := d.ListWithStats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].RSVPCount)
	assert.Equal(t, "Dana", rows[0].OrganizerName)

	row, err := d.FindByIDWithStats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), row.RSVPCount)

	_, err = d.FindByIDWithStats(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCountAttendance_ScopedAndZeroInclusive(t *testing.T) {
	truncateAll(t)
	d := NewEventDAO(testDB)

	mine, err := d.Insert(context.Background(), Event{
		Title:       "Mine",
		StartTime:   time.Now().Add(24 * time.Hour),
		Location:    "Hall A",
		MaxCapacity: 10,
		OrganizerID: 1,
		CheckInCode: "c1",
	})
	require.NoError(t, err)

	empty, err := d.Insert(context.Background(), Event{
		Title:       "Mine Empty",
		StartTime:   time.Now().Add(48 * time.Hour),
		Location:    "Hall B",
		MaxCapacity: 10,
		OrganizerID: 1,
		CheckInCode: "c2",
	})
	require.NoError(t, err)

	theirs, err := d.Insert(context.Background(), Event{
		Title:       "Theirs",
		StartTime:   time.Now().Add(72 * time.Hour),
		Location:    "Hall C",
		MaxCapacity: 10,
		OrganizerID: 2,
		CheckInCode: "c3",
	})
	require.NoError(t, err)

	require.NoError(t, d.InsertAttendance(context.Background(), mine.ID, 10))
	require.NoError(t, d.InsertAttendance(context.Background(), mine.ID, 11))
	require.NoError(t, d.InsertAttendance(context.Background(), theirs.ID, 10))

	organizerID := uint(1)
	scoped, err := d.CountAttendance(context.Background(), &organizerID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, AttendanceCount{EventID: mine.ID, EventTitle: "Mine", AttendanceCount: 2}, scoped[0])
	assert.Equal(t, AttendanceCount{EventID: empty.ID, EventTitle: "Mine Empty", AttendanceCount: 0}, scoped[1])

	all, err := d.CountAttendance(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserDAO_InsertAndUpdateProfile(t *testing.T) {
	truncateAll(t)
	d := NewUserDAO(testDB)

	user, err := d.Insert(context.Background(), User{
		Email:    "alice@campus.edu",
		Password: "hash",
		Name:     "Alice",
		Role:     "student",
	})
	require.NoError(t, err)

	_, err = d.Insert(context.Background(), User{
		Email:    "alice@campus.edu",
		Password: "hash",
		Name:     "Other Alice",
		Role:     "student",
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	updated, err := d.UpdateProfile(context.Background(), User{ID: user.ID, Name: "Alice B", Major: "CS", Year: 3})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "CS", updated.Major)

	_, err = d.UpdateProfile(context.Background(), User{ID: 404, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
