// Command submit drives one submission against a running API instance,
// streaming the video with progress output and retrying transient
// failures under a stable idempotency key.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/saipavansp/incubez-talent-stories/pkg/submitclient"
)

type fieldFlags map[string]string

func (f fieldFlags) String() string {
	return fmt.Sprintf("%d fields", len(f))
}

func (f fieldFlags) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("field %q is not name=value", value)
	}
	f[name] = val
	return nil
}

func main() {
	fields := fieldFlags{}
	server := flag.String("server", "http://localhost:5000", "API base URL")
	kind := flag.String("kind", "", "submission kind: founder or seeker")
	video := flag.String("video", "", "path to the video file (optional)")
	draft := flag.String("draft", defaultDraftPath(), "draft file for resume")
	flag.Var(fields, "field", "form field as name=value, repeatable")
	flag.Parse()

	path, err := submitPath(*kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var attachment *submitclient.Attachment
	if *video != "" {
		contentType := mime.TypeByExtension(filepath.Ext(*video))
		if contentType == "" {
			contentType = "video/mp4"
		}
		attachment = &submitclient.Attachment{Path: *video, ContentType: contentType}
	}

	ctrl, err := submitclient.NewController(
		submitclient.NewTransport(*server),
		submitclient.NewDraftStore(*draft),
		submitclient.WithProgress(printProgress),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	resp, err := ctrl.Submit(context.Background(), path, fields, attachment)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		reportFailure(err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Printf("%s\n", resp.ApplicationID)
	if resp.VideoURL != "" {
		fmt.Fprintf(os.Stderr, "video: %s\n", resp.VideoURL)
	}
	fmt.Fprintf(os.Stderr, "%s\n", resp.Message)
}

func submitPath(kind string) (string, error) {
	switch strings.ToLower(kind) {
	case "founder":
		return "/api/founders/pitch", nil
	case "seeker":
		return "/api/seekers/application", nil
	}
	return "", fmt.Errorf("unknown kind %q: use founder or seeker", kind)
}

func defaultDraftPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".incubez-draft.json"
	}
	return filepath.Join(home, ".incubez-draft.json")
}

func printProgress(p submitclient.Progress) {
	fmt.Fprintf(os.Stderr, "\r%-10s %3d%%", p.State, p.Percent)
}

func reportFailure(err error) {
	var te *submitclient.TransportError
	if !errors.As(err, &te) {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(os.Stderr, te.Message)
	for field, detail := range te.Details {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", field, detail)
	}
	if te.Tip != "" {
		fmt.Fprintf(os.Stderr, "tip: %s\n", te.Tip)
	}
}
