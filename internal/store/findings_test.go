package store

import (
	"context"
	"testing"

	"github.com/zh1gn/FoundItBot/internal/models"
)

func TestCreateFindingUpdatesCounters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, st, 1)
	mustCreateUser(t, st, 2)

	item, errCreate := st.CreateItem(ctx, 1, nil)
	if errCreate != nil {
		t.Fatalf("create item: %v", errCreate)
	}

	finderID := int64(2)
	finding := models.Finding{
		Code:       item.Code,
		OwnerID:    1,
		FinderID:   &finderID,
		FinderName: "Bob",
		Location:   "metro station",
	}
	if errFinding := st.CreateFinding(ctx, &finding); errFinding != nil {
		t.Fatalf("create finding: %v", errFinding)
	}
	if finding.Status != models.FindingStatusPending {
		t.Fatalf("expected default status pending, got %q", finding.Status)
	}

	found, errFind := st.ItemByCode(ctx, item.Code)
	if errFind != nil {
		t.Fatalf("lookup: %v", errFind)
	}
	if found.TimesFound != 1 {
		t.Fatalf("expected times_found=1, got %d", found.TimesFound)
	}

	owner, _ := st.GetUser(ctx, 1)
	if owner.TotalFound != 1 {
		t.Fatalf("expected owner total_found=1, got %d", owner.TotalFound)
	}
	finder, _ := st.GetUser(ctx, 2)
	if finder.TimesHelped != 1 {
		t.Fatalf("expected finder times_helped=1, got %d", finder.TimesHelped)
	}
	if finder.TotalFound != 0 {
		t.Fatalf("finding must not touch the finder's total_found, got %d", finder.TotalFound)
	}
}

func TestUserFindingsBothSides(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, st, 1)
	mustCreateUser(t, st, 2)

	item, errCreate := st.CreateItem(ctx, 1, nil)
	if errCreate != nil {
		t.Fatalf("create item: %v", errCreate)
	}

	finderID := int64(2)
	finding := models.Finding{Code: item.Code, OwnerID: 1, FinderID: &finderID}
	if errFinding := st.CreateFinding(ctx, &finding); errFinding != nil {
		t.Fatalf("create finding: %v", errFinding)
	}

	asOwner, errOwner := st.UserFindings(ctx, 1, true)
	if errOwner != nil {
		t.Fatalf("owner history: %v", errOwner)
	}
	if len(asOwner) != 1 || asOwner[0].Code != item.Code {
		t.Fatalf("expected one owner-side finding, got %+v", asOwner)
	}

	asFinder, errFinder := st.UserFindings(ctx, 2, false)
	if errFinder != nil {
		t.Fatalf("finder history: %v", errFinder)
	}
	if len(asFinder) != 1 {
		t.Fatalf("expected one finder-side finding, got %+v", asFinder)
	}

	empty, errEmpty := st.UserFindings(ctx, 2, true)
	if errEmpty != nil {
		t.Fatalf("empty history: %v", errEmpty)
	}
	if len(empty) != 0 {
		t.Fatalf("finder has no owner-side findings, got %+v", empty)
	}
}
