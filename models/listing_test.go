package models

import "testing"

func TestDowngradeOnlyFromReady(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusReady, StatusNeedsReview},
		{StatusNeedsReview, StatusNeedsReview},
		{StatusBlockedMissing, StatusBlockedMissing},
		{StatusMergedDuplicate, StatusMergedDuplicate},
	}

	for _, tt := range tests {
		l := NewListing("x")
		l.Status = tt.from
		l.Downgrade()
		if l.Status != tt.want {
			t.Errorf("Downgrade from %s = %s; want %s", tt.from, l.Status, tt.want)
		}
	}
}

func TestNotesTextJoinsInOrder(t *testing.T) {
	l := NewListing("x")
	l.AddNote(NotePhoneUnclear, "Phone format unclear")
	l.AddRefNote(NoteMergedInto, "Merged into record: A", "a-id")

	if got, want := l.NotesText(), "Phone format unclear; Merged into record: A"; got != want {
		t.Errorf("NotesText = %q; want %q", got, want)
	}
	if !l.HasNote(NoteMergedInto) {
		t.Error("HasNote(merged_into) should be true")
	}
	if l.Notes[1].Ref != "a-id" {
		t.Errorf("Ref = %q; want a-id", l.Notes[1].Ref)
	}
}

func TestRawRowGetFallsThroughKeys(t *testing.T) {
	r := RawRow{Fields: map[string]string{"booking_link": "", "bookinglink": "https://book.example.com"}}
	if got := r.Get("booking_link", "bookinglink"); got != "https://book.example.com" {
		t.Errorf("Get = %q; want https://book.example.com", got)
	}
	if got := r.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q; want empty", got)
	}
}
