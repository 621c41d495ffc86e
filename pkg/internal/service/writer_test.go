package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TestWriteCollisionSafe 重名文件依次获得 _1、_2 后缀.
func TestWriteCollisionSafe(t *testing.T) {
	dir := t.TempDir()

	cases := []string{"a.jpg", "a_1.jpg", "a_2.jpg"}
	for _, want := range cases {
		got, err := writeCollisionSafe(dir, "a.jpg", []byte("content"))
		if err != nil {
			t.Fatalf("writeCollisionSafe failed: %v", err)
		}

		if got != want {
			t.Errorf("saved as %q, want %q", got, want)
		}
	}

	// 无扩展名的文件同样参与编号
	for _, want := range []string{"README", "README_1"} {
		got, err := writeCollisionSafe(dir, "README", []byte("x"))
		if err != nil {
			t.Fatalf("writeCollisionSafe failed: %v", err)
		}

		if got != want {
			t.Errorf("saved as %q, want %q", got, want)
		}
	}
}

// TestWriteCollisionSafeContent 落盘内容与内存字节一致.
func TestWriteCollisionSafeContent(t *testing.T) {
	dir := t.TempDir()

	content := []byte("hello world")

	saved, err := writeCollisionSafe(dir, "f.txt", content)
	if err != nil {
		t.Fatalf("writeCollisionSafe failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, saved))
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}

	if string(got) != string(content) {
		t.Errorf("content mismatch: %q", got)
	}
}

// TestWriteCollisionSafeExhausted 占满所有候选名后报错而不是死循环.
func TestWriteCollisionSafeExhausted(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= maxCollisionAttempts; i++ {
		name := fmt.Sprintf("a_%d.txt", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := writeCollisionSafe(dir, "a.txt", []byte("x"))
	if !errors.Is(err, ErrTooManyCollisions) {
		t.Errorf("expected ErrTooManyCollisions, got %v", err)
	}
}
