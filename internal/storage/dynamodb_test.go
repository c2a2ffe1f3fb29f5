package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestDynamoBackend_PutGet(t *testing.T) {
	mock := newSimpleMock()
	b := NewDynamoBackend(mock, "storefront-sessions", time.Hour)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b.nowFunc = func() time.Time { return now }

	ctx := context.Background()
	if _, err := b.Get(ctx, "s1/grindctrl_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := b.Put(ctx, "s1/grindctrl_cart", []byte(`[{"id":"p1_default_default"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	item := mock.table["s1/grindctrl_cart"]
	if item == nil {
		t.Fatalf("item not stored")
	}
	exp, ok := item["expires_at"].(*types.AttributeValueMemberN)
	if !ok {
		t.Fatalf("expires_at missing: %+v", item)
	}
	if want := now.Add(time.Hour).Unix(); exp.Value != strconv.FormatInt(want, 10) {
		t.Fatalf("expires_at = %s, want %d", exp.Value, want)
	}

	got, err := b.Get(ctx, "s1/grindctrl_cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"p1_default_default"}]` {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestDynamoBackend_ExpiredItemIsNotFound(t *testing.T) {
	mock := newSimpleMock()
	b := NewDynamoBackend(mock, "storefront-sessions", time.Hour)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b.nowFunc = func() time.Time { return now }

	ctx := context.Background()
	if err := b.Put(ctx, "s1/grindctrl_cart", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(59 * time.Minute)
	if _, err := b.Get(ctx, "s1/grindctrl_cart"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	// the table has not swept the item yet
	now = now.Add(2 * time.Minute)
	if _, ok := mock.table["s1/grindctrl_cart"]; !ok {
		t.Fatalf("item should still be in the table")
	}
	if _, err := b.Get(ctx, "s1/grindctrl_cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired item, got %v", err)
	}
}

func TestDynamoBackend_NoTTL(t *testing.T) {
	mock := newSimpleMock()
	b := NewDynamoBackend(mock, "tbl", 0)
	if err := b.Put(context.Background(), "k", []byte("1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := mock.table["k"]["expires_at"]; ok {
		t.Fatalf("expires_at should be omitted without a ttl")
	}
}

func TestDynamoBackend_ErrorCodeInMessage(t *testing.T) {
	mock := newSimpleMock()
	mock.putErr = &types.ProvisionedThroughputExceededException{Message: strPtr("slow down")}
	b := NewDynamoBackend(mock, "tbl", 0)

	err := b.Put(context.Background(), "k", []byte("1"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ProvisionedThroughputExceededException") {
		t.Fatalf("error code missing from %q", err)
	}
	var pte *types.ProvisionedThroughputExceededException
	if !errors.As(err, &pte) {
		t.Fatalf("expected wrapped ProvisionedThroughputExceededException")
	}
}

func TestDynamoBackend_ThroughAdapter(t *testing.T) {
	mock := newSimpleMock()
	a := NewAdapter(NewDynamoBackend(mock, "tbl", 0), nil).Scoped("session-1")

	ctx := context.Background()
	if !a.Save(ctx, "grindctrl_wishlist", []string{"p1", "p2"}) {
		t.Fatal("save failed")
	}
	var ids []string
	if !a.Load(ctx, "grindctrl_wishlist", &ids) {
		t.Fatal("load failed")
	}
	if len(ids) != 2 || ids[1] != "p2" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if mock.getCalls != 1 || mock.putCalls != 1 {
		t.Fatalf("unexpected call counts get=%d put=%d", mock.getCalls, mock.putCalls)
	}
}

func strPtr(s string) *string { return &s }
