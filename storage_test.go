package main

import (
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"workboard/models"
)

func fileHeader(name, ctype string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", ctype)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidateUpload(t *testing.T) {
	kind, ctype, err := validateUpload(fileHeader("a.png", "image/png", 1024))
	if err != nil || kind != models.KindImage || ctype != "image/png" {
		t.Errorf("png rejected: %v %v %v", kind, ctype, err)
	}
	kind, _, err = validateUpload(fileHeader("b.pdf", "application/pdf", 1024))
	if err != nil || kind != models.KindPDF {
		t.Errorf("pdf rejected: %v %v", kind, err)
	}
	if _, _, err := validateUpload(fileHeader("c.gif", "image/gif", 1024)); err == nil {
		t.Error("gif accepted")
	}
	if _, _, err := validateUpload(fileHeader("d.png", "image/png", maxUploadBytes+1)); err == nil {
		t.Error("oversized file accepted")
	}
	if _, _, err := validateUpload(fileHeader("e.png", "image/png", maxUploadBytes)); err != nil {
		t.Errorf("file at the cap rejected: %v", err)
	}
}

func TestObjectPathKeepsExtension(t *testing.T) {
	old := storageBase
	storageBase = t.TempDir()
	defer func() { storageBase = old }()

	rel, full := objectPath(templateBucket, "Poster Final.PNG")
	if !strings.HasPrefix(rel, templateBucket+"/") || !strings.HasSuffix(rel, ".png") {
		t.Errorf("rel = %q", rel)
	}
	if filepath.Base(rel) == "Poster Final.PNG" {
		t.Error("original filename leaked into the storage key")
	}
	if !strings.HasPrefix(full, storageBase) {
		t.Errorf("full = %q escapes storage base", full)
	}

	// Keys are collision-free across identical filenames.
	rel2, _ := objectPath(templateBucket, "Poster Final.PNG")
	if rel == rel2 {
		t.Error("duplicate storage key")
	}
}

func TestRemoveObject(t *testing.T) {
	old := storageBase
	storageBase = t.TempDir()
	defer func() { storageBase = old }()

	if err := ensureBucket(templateBucket); err != nil {
		t.Fatal(err)
	}
	rel, full := objectPath(templateBucket, "x.png")
	if err := os.WriteFile(full, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	dir, base := filepath.Split(full)
	thumb := filepath.Join(dir, "thumb_"+strings.TrimSuffix(base, ".png")+".jpg")
	if err := os.WriteFile(thumb, []byte("thumb"), 0644); err != nil {
		t.Fatal(err)
	}

	removeObject(rel)
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Error("object survived removal")
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Error("thumbnail survived removal")
	}
}

func TestPublicURLFor(t *testing.T) {
	if got := publicURLFor("templates/abc.pdf"); got != "/files/templates/abc.pdf" {
		t.Errorf("publicURLFor = %q", got)
	}
}
