package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(Config{Prefix: "test"})

	if _, err := c.Get(ctx, "ausente"); !IsNotFound(err) {
		t.Fatalf("esperaba ErrNotFound, obtuvo %v", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("esperaba ErrNotFound tras Delete, obtuvo %v", err)
	}
}

func TestMemorySetNX(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(Config{})

	ok, err := c.SetNX(ctx, "jti", "1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("primer SetNX = %v, %v", ok, err)
	}
	ok, err = c.SetNX(ctx, "jti", "2", time.Minute)
	if err != nil || ok {
		t.Fatalf("segundo SetNX debe fallar, obtuvo %v, %v", ok, err)
	}
	// El valor original sobrevive.
	if v, _ := c.Get(ctx, "jti"); v != "1" {
		t.Errorf("valor = %q", v)
	}
}

func TestMemoryIncrement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(Config{})

	for want := int64(1); want <= 3; want++ {
		n, err := c.Increment(ctx, "contador", time.Minute)
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if n != want {
			t.Errorf("Increment = %d, esperaba %d", n, want)
		}
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(Config{})

	if err := c.Set(ctx, "efimera", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := c.Get(ctx, "efimera"); !IsNotFound(err) {
		t.Fatalf("esperaba expiración, obtuvo %v", err)
	}
}

func TestNewFactory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, err := New(ctx, Config{Kind: "memory"})
	if err != nil {
		t.Fatalf("New(memory): %v", err)
	}
	if _, ok := c.(*memoryClient); !ok {
		t.Errorf("esperaba backend memory, obtuvo %T", c)
	}

	if _, err := New(ctx, Config{Kind: "redis"}); err == nil {
		t.Error("redis sin addr debe fallar")
	}

	// Addr inválida: el ping de arranque corta con el contexto.
	short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := New(short, Config{Kind: "redis", Addr: "127.0.0.1:1"}); err == nil {
		t.Error("redis inalcanzable debe fallar el ping de arranque")
	}
}
