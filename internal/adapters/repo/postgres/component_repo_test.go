package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/pcbuilder/internal/domain"
)

func seedComponents(t *testing.T, r *ComponentRepo) map[string]*domain.Component {
	t.Helper()
	ctx := context.Background()
	parts := map[string]*domain.Component{
		"ryzen": {Name: "Ryzen 7 7800X3D", Brand: "AMD", Model: "100-100000910WOF", Category: domain.CategoryCPU, Price: 449, Wattage: 120,
			Compatibility: domain.Compatibility{Socket: "AM5"}, Active: true},
		"intel": {Name: "Core i5-13600K", Brand: "Intel", Model: "BX8071513600K", Category: domain.CategoryCPU, Price: 319, Wattage: 181,
			Compatibility: domain.Compatibility{Socket: "LGA1700"}, Active: true},
		"psu": {Name: "RM850x", Brand: "Corsair", Category: domain.CategoryPSU, Price: 139,
			Compatibility: domain.Compatibility{WattageCapacity: 850}, Active: true},
		"old": {Name: "Athlon 3000G", Brand: "AMD", Category: domain.CategoryCPU, Price: 49, Wattage: 35, Active: true},
	}
	for _, c := range parts {
		require.NoError(t, r.Save(ctx, c))
	}
	require.NoError(t, r.db.Model(parts["old"]).Update("active", false).Error)
	return parts
}

func TestComponentRepoSaveAssignsIDAndRoundTripsAttributes(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	parts := seedComponents(t, r)
	ryzen := parts["ryzen"]
	require.NotEqual(t, uuid.Nil, ryzen.ID)

	got, err := r.FindByID(context.Background(), ryzen.ID)
	require.NoError(t, err)
	assert.Equal(t, "AM5", got.Compatibility.Socket)
	assert.Equal(t, domain.CategoryCPU, got.Category)
	assert.InDelta(t, 449, got.Price, 0.001)
}

func TestComponentRepoFindByIDMissing(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	_, err := r.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComponentRepoListFiltersAndSorts(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	seedComponents(t, r)
	ctx := context.Background()

	list, total, err := r.List(ctx, domain.ComponentFilter{Category: domain.CategoryCPU})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Core i5-13600K", list[0].Name)

	list, _, err = r.List(ctx, domain.ComponentFilter{Category: domain.CategoryCPU, Sort: domain.SortWattage})
	require.NoError(t, err)
	assert.Equal(t, "Core i5-13600K", list[0].Name)

	list, _, err = r.List(ctx, domain.ComponentFilter{Category: domain.CategoryCPU, Sort: domain.SortName})
	require.NoError(t, err)
	assert.Equal(t, "Core i5-13600K", list[0].Name)
	assert.Equal(t, "Ryzen 7 7800X3D", list[1].Name)

	list, total, err = r.List(ctx, domain.ComponentFilter{Category: domain.CategoryCPU, IncludeInactive: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "Athlon 3000G", list[0].Name)
}

func TestComponentRepoListSearchesNameBrandModel(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	seedComponents(t, r)
	ctx := context.Background()

	list, _, err := r.List(ctx, domain.ComponentFilter{Query: "corsair"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "RM850x", list[0].Name)

	list, _, err = r.List(ctx, domain.ComponentFilter{Query: "bx807"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Core i5-13600K", list[0].Name)
}

func TestComponentRepoSearchStaysInsideFilters(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	seedComponents(t, r)
	ctx := context.Background()

	list, total, err := r.List(ctx, domain.ComponentFilter{Category: domain.CategoryPSU, Query: "amd"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	list, _, err = r.List(ctx, domain.ComponentFilter{Category: domain.CategoryCPU, Query: "AMD"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ryzen 7 7800X3D", list[0].Name)
}

func TestComponentRepoListPaginates(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	seedComponents(t, r)

	list, total, err := r.List(context.Background(), domain.ComponentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Ryzen 7 7800X3D", list[0].Name)
}

func TestComponentRepoFindByIDsAndDelete(t *testing.T) {
	r := NewComponentRepo(newTestDB(t))
	parts := seedComponents(t, r)
	ctx := context.Background()

	list, err := r.FindByIDs(ctx, []uuid.UUID{parts["ryzen"].ID, parts["psu"].ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	empty, err := r.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, r.Delete(ctx, parts["psu"].ID))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Error(t, r.Delete(ctx, uuid.Nil))
}
