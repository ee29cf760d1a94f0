package service

import (
	"sync"
	"testing"
	"time"
)

func TestLoginRateLimiter_BlocksAfterMax(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("hash-1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if limiter.Allow("hash-1") {
		t.Fatal("fourth attempt should be blocked")
	}
	if !limiter.Allow("hash-2") {
		t.Fatal("other keys must not be affected")
	}
}

func TestLoginRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewLoginRateLimiter(30*time.Millisecond, 1)

	if !limiter.Allow("hash-1") {
		t.Fatal("first attempt should be allowed")
	}
	if limiter.Allow("hash-1") {
		t.Fatal("second attempt inside window should be blocked")
	}

	time.Sleep(50 * time.Millisecond)
	if !limiter.Allow("hash-1") {
		t.Fatal("attempt after window should be allowed")
	}
}

func TestUserLocks_SerializesSameUser(t *testing.T) {
	locks := NewUserLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("u1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}
