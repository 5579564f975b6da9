package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(testutil.NewDB(t), 5*time.Second)
}

// newConcurrentStorage is backed by a database where goroutines really run
// statements side by side.
func newConcurrentStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(testutil.NewConcurrentDB(t), 10*time.Second)
}

// hammer runs fn from n goroutines released at the same moment.
func hammer(t *testing.T, n int, fn func(i int) error) {
	t.Helper()
	start := make(chan struct{})
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs <- fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func mustPlayer(t *testing.T, store *Storage, name string, category models.Category) *models.Player {
	t.Helper()
	p, err := NewPlayerService(store).Create(context.Background(), CreatePlayerInput{Name: name, Category: category})
	require.NoError(t, err)
	return p
}

func mustTraining(t *testing.T, store *Storage, date time.Time, category models.Category) *models.Training {
	t.Helper()
	tr, err := NewTrainingService(store).Create(context.Background(), CreateTrainingInput{
		Date:          date,
		Category:      category,
		CreatedByID:   1,
		CreatedByKind: "trainer",
	})
	require.NoError(t, err)
	return tr
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t.Add(17 * time.Hour)
}
