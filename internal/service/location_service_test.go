package service

import (
	"campussafety/internal/model"
	"context"
	"testing"
)

func TestLocationService_CachesLookups(t *testing.T) {
	repo := &fakeLocations{locations: map[string][]model.Location{
		"acct1": {{ID: "l1", LocationName: "North High"}},
	}}
	svc := NewLocationService(repo, newFakeLocationCache())

	for range 3 {
		got, err := svc.List(context.Background(), "acct1")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].LocationName != "North High" {
			t.Fatalf("unexpected locations %v", got)
		}
	}
	if repo.calls != 1 {
		t.Errorf("expected one database lookup, got %d", repo.calls)
	}
}
