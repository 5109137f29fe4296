package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/model"
)

func TestMemoryShortLinkRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShortLinkRepository()

	older := &model.ShortLink{FullURL: "https://example.com", ShortCode: "aaaaaaa", CreatedAt: time.Now().Add(-time.Minute)}
	newer := &model.ShortLink{FullURL: "https://example.com", ShortCode: "bbbbbbb"}
	custom := &model.ShortLink{FullURL: "https://example.com", ShortCode: "mine", IsCustom: true}

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, custom))

	err := repo.Create(ctx, &model.ShortLink{FullURL: "https://other.com", ShortCode: "mine"})
	assert.ErrorIs(t, err, apperrors.ErrShortCodeExists)

	found, err := repo.FindByFullURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbb", found.ShortCode, "newest non-custom link wins")

	_, err = repo.FindByFullURL(ctx, "https://missing.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	link, err := repo.IncrementClicks(ctx, "mine")
	require.NoError(t, err)
	assert.Equal(t, int64(1), link.Clicks)

	// returned records are copies
	link.Clicks = 100
	stored, err := repo.FindByShortCode(ctx, "mine")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Clicks)

	deleted, err := repo.Delete(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbb", deleted.ShortCode)

	_, err = repo.FindByShortCode(ctx, "bbbbbbb")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.Delete(ctx, newer.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryShortLinkRepository_ConcurrentClicks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShortLinkRepository()
	require.NoError(t, repo.Create(ctx, &model.ShortLink{FullURL: "https://example.com", ShortCode: "abc1234"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.IncrementClicks(ctx, "abc1234")
		}()
	}
	wg.Wait()

	link, err := repo.FindByShortCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, int64(50), link.Clicks)
}

func TestMemoryLinkGroupRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLinkGroupRepository()

	first := &model.LinkGroup{GroupName: "First", GroupURL: "first123"}
	second := &model.LinkGroup{GroupName: "Second", GroupURL: "second12"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	err := repo.Create(ctx, &model.LinkGroup{GroupName: "Dup", GroupURL: "first123"})
	assert.ErrorIs(t, err, apperrors.ErrShortCodeExists)

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Second", groups[0].GroupName)

	viewed, err := repo.IncrementViews(ctx, "first123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), viewed.Views)

	first.GroupURL = "second12"
	assert.ErrorIs(t, repo.Update(ctx, first), apperrors.ErrShortCodeExists)

	first.GroupURL = "renamed1"
	first.Links = model.GroupLinks{{ID: "x", Title: "Docs", URL: "https://docs.example.com"}}
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, int64(1), first.Views, "update keeps the view counter")

	found, err := repo.FindByGroupURL(ctx, "renamed1")
	require.NoError(t, err)
	assert.Len(t, found.Links, 1)

	assert.ErrorIs(t, repo.Update(ctx, &model.LinkGroup{ID: 99}), apperrors.ErrNotFound)

	_, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
