// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/tisoftshake/softshake/internal/infra/config"
)

const emulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

var ErrNoProject = errors.New("firestoreinfra: project id is empty")

// CredentialsFile returns FIRESTORE_CREDENTIALS_FILE, falling back to
// GOOGLE_APPLICATION_CREDENTIALS. Empty means ADC.
func CredentialsFile(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	if f := strings.TrimSpace(cfg.FirestoreCredentialsFile); f != "" {
		return f
	}
	return strings.TrimSpace(cfg.GCPCreds)
}

// ClientOptions are shared by every GCP client (Firestore, GCS, Secret Manager).
func ClientOptions(cfg *config.Config) []option.ClientOption {
	if f := CredentialsFile(cfg); f != "" {
		return []option.ClientOption{option.WithCredentialsFile(f)}
	}
	return nil
}

// EmulatorHost is non-empty when the SDK will dial the local emulator.
func EmulatorHost() string {
	return strings.TrimSpace(os.Getenv(emulatorHostEnv))
}

// NewClient opens Firestore for projectID.
// Against the emulator credentials are ignored by the SDK.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrNoProject
	}

	c, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: open project=%s: %w", projectID, err)
	}

	if h := EmulatorHost(); h != "" {
		log.Printf("[firestore] using emulator at %s (project: %s)", h, projectID)
	} else {
		log.Printf("[firestore] connected (project: %s)", projectID)
	}
	return c, nil
}
