package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"caregrid-listings/models"
)

type fakeCatalog struct {
	statuses map[string]int
	errs     map[string]error
	posted   []CatalogPayload
}

func (f *fakeCatalog) PostClinic(ctx context.Context, p CatalogPayload) (int, error) {
	f.posted = append(f.posted, p)
	if err := f.errs[p.Name]; err != nil {
		return 0, err
	}
	if s, ok := f.statuses[p.Name]; ok {
		return s, nil
	}
	return 201, nil
}

func named(name string, status models.Status) *models.Listing {
	l := completeListing()
	l.Name = name
	l.Status = status
	return l
}

func TestPublishTalliesOutcomes(t *testing.T) {
	client := &fakeCatalog{
		statuses: map[string]int{"ok": 200, "created": 201, "exists": 409, "broken": 500},
		errs:     map[string]error{"offline": errors.New("dial tcp: connection refused")},
	}
	p := NewPublisher(client, newTestLogger())

	listings := []*models.Listing{
		named("ok", models.StatusReady),
		named("created", models.StatusReady),
		named("exists", models.StatusReady),
		named("broken", models.StatusReady),
		named("offline", models.StatusReady),
		named("review", models.StatusNeedsReview),
		named("blocked", models.StatusBlockedMissing),
		named("merged", models.StatusMergedDuplicate),
	}

	r := p.Publish(context.Background(), listings)

	if r.Published != 3 || r.Failed != 2 || r.Skipped != 0 {
		t.Errorf("result = %d/%d/%d; want 3/2/0", r.Published, r.Failed, r.Skipped)
	}
	if len(client.posted) != 5 {
		t.Errorf("posted %d payloads; only READY listings should be sent", len(client.posted))
	}
	want := map[string]string{"broken": "HTTP 500", "offline": "dial tcp: connection refused"}
	for _, f := range r.Failures {
		if want[f.Record] != f.Error {
			t.Errorf("failure %s = %q; want %q", f.Record, f.Error, want[f.Record])
		}
	}
}

func TestPublishWithoutClientSkips(t *testing.T) {
	p := NewPublisher(nil, newTestLogger())

	r := p.Publish(context.Background(), []*models.Listing{
		named("a", models.StatusReady),
		named("b", models.StatusReady),
		named("c", models.StatusNeedsReview),
	})

	if r.Skipped != 2 || r.Published != 0 || r.Failed != 0 {
		t.Errorf("result = %+v; want 2 skipped", r)
	}
	if r.Failures == nil {
		t.Error("Failures should be an empty list, not nil")
	}
}

func TestPublishCancelledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeCatalog{}

	r := NewPublisher(client, newTestLogger()).Publish(ctx, []*models.Listing{named("a", models.StatusReady)})

	if r.Failed != 1 || len(client.posted) != 0 {
		t.Errorf("failed=%d posted=%d; want 1 and 0", r.Failed, len(client.posted))
	}
}

func TestCatalogPayloadShape(t *testing.T) {
	l := seoListing()
	l.AddNote(models.NotePhoneUnclear, "Phone format unclear")

	data, err := json.Marshal(NewCatalogPayload(l))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if fields["type"] != models.CategoryDentist {
		t.Errorf("type = %v; want Dentist", fields["type"])
	}
	for _, k := range []string{"status", "notes", "id", "category"} {
		if _, ok := fields[k]; ok {
			t.Errorf("payload must not contain %q", k)
		}
	}
	for _, k := range []string{"name", "city", "website", "services", "latitude", "seoTitle"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("payload missing %q", k)
		}
	}
}
