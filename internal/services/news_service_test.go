package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPublishedWithoutLimitReturnsEverything(t *testing.T) {
	store := newTestStorage(t)
	svc := NewNewsService(store)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, CreateNewsInput{
			Title: fmt.Sprintf("Match report %d", i), Content: "...", AuthorID: 1, Published: true,
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateNewsInput{Title: "Draft", Content: "...", AuthorID: 1})
	require.NoError(t, err)

	items, err := svc.ListPublished(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, 15)
	assert.Equal(t, "Match report 14", items[0].Title)

	items, err = svc.ListPublished(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 16)
}

func TestNewsRejectsBlankText(t *testing.T) {
	store := newTestStorage(t)
	svc := NewNewsService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateNewsInput{Title: "  \t", Content: "body", AuthorID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(ctx, CreateNewsInput{Title: "Title", Content: "\n ", AuthorID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	item, err := svc.Create(ctx, CreateNewsInput{Title: "  Training camp ", Content: "July", AuthorID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Training camp", item.Title)

	blank := "   "
	assert.ErrorIs(t, svc.Update(ctx, item.ID, UpdateNewsInput{Title: &blank}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Update(ctx, item.ID, UpdateNewsInput{Content: &blank}), ErrInvalidInput)

	stored, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Training camp", stored.Title)
	assert.Equal(t, "July", stored.Content)
}

func TestNewsAndGalleryRecordAuthorKind(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	byTrainer, err := NewNewsService(store).Create(ctx, CreateNewsInput{
		Title: "A", Content: "a", AuthorID: 1, AuthorKind: string(identity.KindTrainer),
	})
	require.NoError(t, err)
	byUser, err := NewNewsService(store).Create(ctx, CreateNewsInput{
		Title: "B", Content: "b", AuthorID: 1, AuthorKind: string(identity.KindUser),
	})
	require.NoError(t, err)

	first, err := NewNewsService(store).Get(ctx, byTrainer.ID)
	require.NoError(t, err)
	second, err := NewNewsService(store).Get(ctx, byUser.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AuthorID, second.AuthorID)
	assert.Equal(t, "trainer", first.AuthorKind)
	assert.Equal(t, "user", second.AuthorKind)

	photo, err := NewGalleryService(store).Create(ctx, CreateGalleryInput{
		ImageURL: "https://cdn.example.com/p.jpg", UploadedByID: 1, UploadedByKind: string(identity.KindUser),
	})
	require.NoError(t, err)
	assert.Equal(t, "user", photo.UploadedByKind)
	assert.Equal(t, "https://cdn.example.com/p.jpg", photo.ImageKey)
}
