package r2

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
)

type stubObjectAPI struct {
	putInput  *s3.PutObjectInput
	putErr    error
	deleteKey string
	headErr   error
}

func (s *stubObjectAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.putInput = params
	if s.putErr != nil {
		return nil, s.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (s *stubObjectAPI) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	s.deleteKey = aws.ToString(params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (s *stubObjectAPI) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if s.headErr != nil {
		return nil, s.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func writeTempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video_123.mp4")
	if err := os.WriteFile(path, []byte("fake mp4 bytes"), 0o644); err != nil {
		t.Fatalf("writing temp video: %v", err)
	}
	return path
}

func TestUploadStoresObjectAndRemovesTempFile(t *testing.T) {
	api := &stubObjectAPI{}
	client := NewClientWithAPI(api, "videos", "https://pub-acct.r2.dev")
	path := writeTempVideo(t)

	stored, err := client.Upload(context.Background(), path, "founders/jane_INC-FND-2026-0001.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if got, want := stored.PublicURL, "https://pub-acct.r2.dev/founders/jane_INC-FND-2026-0001.mp4"; got != want {
		t.Errorf("public url = %q, want %q", got, want)
	}
	if got := aws.ToString(api.putInput.ContentType); got != "video/mp4" {
		t.Errorf("content type = %q", got)
	}
	if got := aws.ToInt64(api.putInput.ContentLength); got != int64(len("fake mp4 bytes")) {
		t.Errorf("content length = %d", got)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("temp file should be removed after upload, stat err = %v", statErr)
	}
}

func TestUploadRemovesTempFileOnFailure(t *testing.T) {
	api := &stubObjectAPI{putErr: errors.New("bucket unavailable")}
	client := NewClientWithAPI(api, "videos", "https://pub-acct.r2.dev")
	path := writeTempVideo(t)

	_, err := client.Upload(context.Background(), path, "seekers/raj_INC-SKR-2026-0042.mp4", "video/mp4")
	if err == nil {
		t.Fatal("expected upload error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("temp file should be removed after failed upload, stat err = %v", statErr)
	}
}

func TestPublicBaseFallsBackToAccountDomain(t *testing.T) {
	base := publicBase(config.R2Config{AccountID: "acct123"})
	if base != "https://pub-acct123.r2.dev" {
		t.Errorf("base = %q", base)
	}

	base = publicBase(config.R2Config{AccountID: "acct123", PublicBaseURL: "https://videos.incubez.in/"})
	if base != "https://videos.incubez.in" {
		t.Errorf("base = %q", base)
	}
}

func TestObjectKey(t *testing.T) {
	cases := []struct {
		kind enums.SubmissionKind
		name string
		id   string
		want string
	}{
		{enums.SubmissionKindFounder, "Jane Doe", "INC-FND-2026-0007", "founders/jane-doe_INC-FND-2026-0007.mp4"},
		{enums.SubmissionKindSeeker, "  Raj_K  ", "INC-SKR-2026-0002", "seekers/raj-k_INC-SKR-2026-0002.mp4"},
		{enums.SubmissionKindSeeker, "!!!", "INC-SKR-2026-0003", "seekers/video_INC-SKR-2026-0003.mp4"},
	}
	for _, tc := range cases {
		if got := ObjectKey(tc.kind, tc.name, tc.id); got != tc.want {
			t.Errorf("ObjectKey(%s, %q) = %q, want %q", tc.kind, tc.name, got, tc.want)
		}
	}
}

func TestDeleteForwardsKey(t *testing.T) {
	api := &stubObjectAPI{}
	client := NewClientWithAPI(api, "videos", "https://pub-acct.r2.dev")
	if err := client.Delete(context.Background(), "founders/x.mp4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if api.deleteKey != "founders/x.mp4" {
		t.Errorf("delete key = %q", api.deleteKey)
	}
}
