package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/pcbuilder/internal/domain"
)

func TestListForSlot(t *testing.T) {
	f := newFixture()
	uc := &ComponentUC{Components: newMemComponents(f.all()...)}
	ctx := context.Background()

	list, err := uc.ListForSlot(ctx, domain.CategoryCPU, "", "", nil, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, f.lgaCPU.ID, list[0].ID, "cheapest first")

	list, err = uc.ListForSlot(ctx, domain.CategoryCPU, "", domain.SortName, nil, false)
	require.NoError(t, err)
	assert.Equal(t, f.lgaCPU.ID, list[0].ID)

	list, err = uc.ListForSlot(ctx, domain.CategoryCPU, "", domain.SortWattage, nil, false)
	require.NoError(t, err)
	assert.Equal(t, f.lgaCPU.ID, list[0].ID, "hungriest first")

	list, err = uc.ListForSlot(ctx, domain.CategoryCPU, "amd", "", nil, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.am5CPU.ID, list[0].ID)

	sel := domain.NewSelection()
	require.NoError(t, sel.Select(domain.CategoryMotherboard, f.board))
	list, err = uc.ListForSlot(ctx, domain.CategoryRAM, "", "", sel, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.ddr5.ID, list[0].ID)

	_, err = uc.ListForSlot(ctx, domain.Category("toaster"), "", "", nil, false)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestResolveSkipsInactiveAndMissing(t *testing.T) {
	f := newFixture()
	uc := &ComponentUC{Components: newMemComponents(f.all()...)}

	got, err := uc.Resolve(context.Background(), []uuid.UUID{f.gpu.ID, f.gpu.ID, f.retired.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RTX 4070", got[f.gpu.ID].Name)

	empty, err := uc.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateComponent(t *testing.T) {
	repo := newMemComponents()
	uc := &ComponentUC{Components: repo}
	ctx := context.Background()

	c := &domain.Component{Name: "NH-D15", Category: domain.CategoryCooling, Price: 109, Active: true}
	require.NoError(t, uc.Create(ctx, c))
	assert.NotEqual(t, uuid.Nil, c.ID)

	var verr *domain.ValidationError
	assert.ErrorAs(t, uc.Create(ctx, &domain.Component{Category: domain.CategoryCooling}), &verr)
	assert.ErrorAs(t, uc.Create(ctx, &domain.Component{Name: "x", Category: domain.CategoryCooling, Price: -1}), &verr)
	assert.ErrorIs(t, uc.Create(ctx, &domain.Component{Name: "x", Category: "toaster"}), domain.ErrUnknownCategory)

	n, _ := repo.Count(ctx)
	assert.EqualValues(t, 1, n)
}

func TestImportUpsertsByCategoryAndName(t *testing.T) {
	f := newFixture()
	repo := newMemComponents(f.all()...)
	uc := &ComponentUC{Components: repo}

	parts := []domain.Component{
		{Name: "rtx 4070", Category: domain.CategoryGPU, Price: 529, Wattage: 200, Active: true},
		{Name: "Arc A770", Category: domain.CategoryGPU, Price: 299, Wattage: 225, Active: true},
	}
	created, updated, err := uc.Import(context.Background(), parts)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)

	got, err := uc.Get(context.Background(), f.gpu.ID)
	require.NoError(t, err)
	assert.InDelta(t, 529, got.Price, 0.001)

	_, _, err = uc.Import(context.Background(), []domain.Component{{Name: "Mystery", Category: "fan"}})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func manyParts(cat domain.Category, n int) []domain.Component {
	out := make([]domain.Component, n)
	for i := range out {
		out[i] = domain.Component{ID: uuid.New(), Name: fmt.Sprintf("Part %04d", i), Category: cat, Price: float64(i), Active: true}
	}
	return out
}

func TestListForSlotWalksEveryPage(t *testing.T) {
	repo := newMemComponents(manyParts(domain.CategoryStorage, 2*listPageSize+50)...)
	uc := &ComponentUC{Components: repo}

	list, err := uc.ListForSlot(context.Background(), domain.CategoryStorage, "", "", nil, false)
	require.NoError(t, err)
	require.Len(t, list, 2*listPageSize+50)
	assert.Equal(t, 3, repo.lists)
	assert.Equal(t, "Part 0000", list[0].Name)
	assert.Equal(t, fmt.Sprintf("Part %04d", 2*listPageSize+49), list[len(list)-1].Name)

	list, err = uc.ListForSlot(context.Background(), domain.CategoryStorage, "part 0420", "", nil, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestImportMatchesRowsPastTheFirstPage(t *testing.T) {
	existing := manyParts(domain.CategoryStorage, listPageSize+10)
	repo := newMemComponents(existing...)
	uc := &ComponentUC{Components: repo}
	last := existing[len(existing)-1]

	created, updated, err := uc.Import(context.Background(), []domain.Component{
		{Name: strings.ToUpper(last.Name), Category: domain.CategoryStorage, Price: 1, Active: true},
		{Name: "Fresh SSD", Category: domain.CategoryStorage, Price: 70, Active: true},
		{Name: "fresh ssd", Category: domain.CategoryStorage, Price: 65, Active: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, updated)

	n, _ := repo.Count(context.Background())
	assert.EqualValues(t, len(existing)+1, n)
	got, err := uc.Get(context.Background(), last.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.Price, 0.001)
}

func TestDeleteComponent(t *testing.T) {
	f := newFixture()
	repo := newMemComponents(f.all()...)
	uc := &ComponentUC{Components: repo}
	ctx := context.Background()

	require.NoError(t, uc.Delete(ctx, f.gpu.ID))
	_, err := uc.Get(ctx, f.gpu.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, f.gpu.ID), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, uuid.Nil), domain.ErrNotFound)
}
