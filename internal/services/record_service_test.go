package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/povertyline/server/internal/models"
)

func TestRecordCreateResolvesReferences(t *testing.T) {
	db := openServiceTestDB(t)
	user := createVerifiedUser(t, db, "rec-create")
	region, background := seedReferencePair(t, db)

	svc, err := NewRecordService(db)
	require.NoError(t, err)

	record, err := svc.Create(context.Background(), user.ID, CreateRecordInput{
		RegionID:           region.ID,
		SocialBackgroundID: background.ID,
		Income:             120.5,
		EducationLevel:     "Secondary",
		EmploymentStatus:   "Employed",
	})
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.Equal(t, 120.5, record.Income)
	require.NotNil(t, record.Region)
	require.Equal(t, "Sub-Saharan Africa", record.Region.Name)
	require.NotNil(t, record.SocialBackground)
	require.Equal(t, "Urban Poor", record.SocialBackground.Name)

	// reading it back resolves the same names
	loaded, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)
	require.Equal(t, record.Region.Name, loaded.Region.Name)
	require.Equal(t, record.SocialBackground.Name, loaded.SocialBackground.Name)
}

func TestRecordCreateValidation(t *testing.T) {
	db := openServiceTestDB(t)
	user := createVerifiedUser(t, db, "rec-validate")
	region, background := seedReferencePair(t, db)

	svc, err := NewRecordService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, user.ID, CreateRecordInput{
		RegionID:           "missing-region",
		SocialBackgroundID: background.ID,
		Income:             10,
	})
	require.ErrorIs(t, err, ErrReferenceNotFound)

	_, err = svc.Create(ctx, user.ID, CreateRecordInput{
		RegionID:           region.ID,
		SocialBackgroundID: "missing-background",
		Income:             10,
	})
	require.ErrorIs(t, err, ErrReferenceNotFound)

	_, err = svc.Create(ctx, user.ID, CreateRecordInput{
		RegionID:           region.ID,
		SocialBackgroundID: background.ID,
		Income:             -1,
	})
	require.Error(t, err)

	// nothing was persisted by the failed attempts
	var count int64
	require.NoError(t, db.Model(&models.Record{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRecordMutationIsOwnerOnly(t *testing.T) {
	db := openServiceTestDB(t)
	owner := createVerifiedUser(t, db, "rec-owner")
	intruder := createVerifiedUser(t, db, "rec-intruder")
	region, background := seedReferencePair(t, db)

	svc, err := NewRecordService(db)
	require.NoError(t, err)
	ctx := context.Background()

	record, err := svc.Create(ctx, owner.ID, CreateRecordInput{
		RegionID:           region.ID,
		SocialBackgroundID: background.ID,
		Income:             200,
		EducationLevel:     "Primary",
	})
	require.NoError(t, err)

	income := 999.0
	_, err = svc.Update(ctx, record.ID, intruder.ID, UpdateRecordInput{Income: &income})
	require.ErrorIs(t, err, ErrRecordNotFound)

	err = svc.Delete(ctx, record.ID, intruder.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)

	// a missing record produces the same error as foreign ownership
	_, err = svc.Update(ctx, "no-such-record", owner.ID, UpdateRecordInput{Income: &income})
	require.ErrorIs(t, err, ErrRecordNotFound)

	// the record is unmodified after the rejected attempts
	unchanged, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, 200.0, unchanged.Income)

	// the owner can mutate and delete
	updated, err := svc.Update(ctx, record.ID, owner.ID, UpdateRecordInput{Income: &income})
	require.NoError(t, err)
	require.Equal(t, 999.0, updated.Income)
	require.Equal(t, "Primary", updated.EducationLevel)

	require.NoError(t, svc.Delete(ctx, record.ID, owner.ID))
	_, err = svc.Get(ctx, record.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordPartialUpdateAppliesOnlySuppliedFields(t *testing.T) {
	db := openServiceTestDB(t)
	user := createVerifiedUser(t, db, "rec-partial")
	region, background := seedReferencePair(t, db)

	svc, err := NewRecordService(db)
	require.NoError(t, err)
	ctx := context.Background()

	record, err := svc.Create(ctx, user.ID, CreateRecordInput{
		RegionID:           region.ID,
		SocialBackgroundID: background.ID,
		Income:             150,
		EducationLevel:     "Secondary",
		EmploymentStatus:   "Employed",
	})
	require.NoError(t, err)

	status := "Self-employed"
	updated, err := svc.Update(ctx, record.ID, user.ID, UpdateRecordInput{EmploymentStatus: &status})
	require.NoError(t, err)
	require.Equal(t, "Self-employed", updated.EmploymentStatus)
	require.Equal(t, "Secondary", updated.EducationLevel)
	require.Equal(t, 150.0, updated.Income)

	// updating to a dangling reference is rejected
	missing := "missing-region"
	_, err = svc.Update(ctx, record.ID, user.ID, UpdateRecordInput{RegionID: &missing})
	require.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestRecordListFilters(t *testing.T) {
	db := openServiceTestDB(t)
	user := createVerifiedUser(t, db, "rec-list")

	regionA := &models.Region{Name: "South Asia", Country: "Various", PovertyRate: 16}
	regionB := &models.Region{Name: "East Asia and Pacific", Country: "Various", PovertyRate: 7}
	require.NoError(t, db.Create(regionA).Error)
	require.NoError(t, db.Create(regionB).Error)

	rural := &models.SocialBackground{Name: "Rural Poor"}
	informal := &models.SocialBackground{Name: "Informal Workers"}
	require.NoError(t, db.Create(rural).Error)
	require.NoError(t, db.Create(informal).Error)

	svc, err := NewRecordService(db)
	require.NoError(t, err)
	ctx := context.Background()

	seed := []struct {
		region     *models.Region
		background *models.SocialBackground
		income     float64
	}{
		{regionA, rural, 0},
		{regionA, informal, 100},
		{regionB, rural, 250},
		{regionB, informal, 400},
	}
	for _, s := range seed {
		_, err := svc.Create(ctx, user.ID, CreateRecordInput{
			RegionID:           s.region.ID,
			SocialBackgroundID: s.background.ID,
			Income:             s.income,
		})
		require.NoError(t, err)
	}

	// region name substring, case-insensitive
	records, total, err := svc.List(ctx, ListRecordsOptions{Filters: RecordFilters{Region: "south"}})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, records, 2)

	// filters AND-combine
	records, total, err = svc.List(ctx, ListRecordsOptions{
		Filters: RecordFilters{Region: "asia", SocialBackground: "rural"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	// income bounds are inclusive at both ends
	min, max := 100.0, 250.0
	records, total, err = svc.List(ctx, ListRecordsOptions{
		Filters: RecordFilters{MinIncome: &min, MaxIncome: &max},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	for _, r := range records {
		require.GreaterOrEqual(t, r.Income, 100.0)
		require.LessOrEqual(t, r.Income, 250.0)
	}

	// an explicit zero lower bound is honoured, not dropped
	zero := 0.0
	_, total, err = svc.List(ctx, ListRecordsOptions{Filters: RecordFilters{MinIncome: &zero}})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)

	// listing preloads references in insertion order
	records, _, err = svc.List(ctx, ListRecordsOptions{})
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, 0.0, records[0].Income)
	require.NotNil(t, records[0].Region)
	require.Equal(t, "South Asia", records[0].Region.Name)

	// out-of-range page returns no items but keeps the totals
	records, total, err = svc.List(ctx, ListRecordsOptions{Page: PageRequest{Page: 50}})
	require.NoError(t, err)
	require.Empty(t, records)
	require.Equal(t, int64(4), total)
}
