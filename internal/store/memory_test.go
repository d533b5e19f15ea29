package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func seedMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()

	puts := []struct {
		index, id, routing, body string
	}{
		{"orders-2019.06.22", "s1-100", "s1", `{"order_no":100}`},
		{"orders-2019.06.22", "s2-200", "s2", `{"order_no":200}`},
		{"orders-2019.06.23", "s1-101", "s1", `{"order_no":101}`},
		{"orders-2019.07.01", "s1-102", "s1", `{"order_no":102}`},
		{"metrics-2019.06.22", "m1", "", `{"value":1}`},
	}
	for _, p := range puts {
		if err := s.Put(ctx, p.index, p.id, p.routing, []byte(p.body)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	return s
}

func TestMatches(t *testing.T) {
	tests := []struct {
		index     string
		selectors []string
		want      bool
	}{
		{"orders-2019.06.22", []string{"orders-2019.06.22"}, true},
		{"orders-2019.06.22", []string{"orders-2019.06.23"}, false},
		{"orders-2019.06.22", []string{"orders-2019.06.*"}, true},
		{"orders-2019.06.22", []string{"orders-2019.*"}, true},
		{"orders-2019.06.22", []string{"orders-*"}, true},
		{"orders-2019.06.22", []string{"metrics-*"}, false},
		{"orders-2019.06.22", []string{"orders-2020.*", "orders-2019.06.22"}, true},
		{"orders-2019.06.22", nil, false},
	}

	for _, tt := range tests {
		if got := Matches(tt.index, tt.selectors); got != tt.want {
			t.Errorf("Matches(%q, %v) = %v, want %v", tt.index, tt.selectors, got, tt.want)
		}
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := seedMemoryStore(t)
	ctx := context.Background()

	doc, err := s.Get(ctx, []string{"orders-*"}, "s1-101")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.Index != "orders-2019.06.23" {
		t.Errorf("Expected index orders-2019.06.23, got %s", doc.Index)
	}
	if doc.Routing != "s1" {
		t.Errorf("Expected routing s1, got %s", doc.Routing)
	}
	if string(doc.Body) != `{"order_no":101}` {
		t.Errorf("Unexpected body: %s", doc.Body)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := seedMemoryStore(t)

	_, err := s.Get(context.Background(), []string{"orders-*"}, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// Present id but non-matching selector is also not found.
	_, err = s.Get(context.Background(), []string{"metrics-*"}, "s1-100")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_PutCopiesBody(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	body := []byte(`{"v":1}`)
	if err := s.Put(ctx, "idx-2019.06.22", "a", "", body); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	body[0] = 'X'

	doc, err := s.Get(ctx, []string{"idx-*"}, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(doc.Body) != `{"v":1}` {
		t.Errorf("Stored body aliases the caller's slice: %s", doc.Body)
	}
}

func TestMemoryStore_SearchGroupSelector(t *testing.T) {
	s := seedMemoryStore(t)

	docs, err := s.Search(context.Background(), []string{"orders-2019.06.*"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	var ids []string
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	want := []string{"s1-100", "s2-200", "s1-101"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected ids %v, got %v", want, ids)
	}
}

func TestMemoryStore_SearchMixedSelector(t *testing.T) {
	s := seedMemoryStore(t)

	docs, err := s.Search(context.Background(), []string{"orders-2019.06.23", "orders-2019.07.*"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "s1-101" || docs[1].ID != "s1-102" {
		t.Errorf("Unexpected documents: %s, %s", docs[0].ID, docs[1].ID)
	}
}

func TestMemoryStore_Indices(t *testing.T) {
	s := seedMemoryStore(t)

	names, err := s.Indices(context.Background(), []string{"orders-*"})
	if err != nil {
		t.Fatalf("Indices failed: %v", err)
	}

	want := []string{"orders-2019.06.22", "orders-2019.06.23", "orders-2019.07.01"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := seedMemoryStore(t)
	ctx := context.Background()

	if err := s.Delete(ctx, []string{"orders-*"}, "s1-100"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, []string{"orders-*"}, "s1-100"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing document is not an error.
	if err := s.Delete(ctx, []string{"orders-*"}, "missing"); err != nil {
		t.Errorf("Delete of missing document failed: %v", err)
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "idx-2019.06.22", "a", "", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "idx-2019.06.22", "a", "", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	docs, err := s.Search(ctx, []string{"idx-*"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document after overwrite, got %d", len(docs))
	}
	if string(docs[0].Body) != `{"v":2}` {
		t.Errorf("Expected the overwritten body, got %s", docs[0].Body)
	}
}
