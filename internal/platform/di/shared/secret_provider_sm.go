// internal/platform/di/shared/secret_provider_sm.go
package shared

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("di.shared: secretProviderSM not configured")

// secretProviderSM reads the latest version of a secret by id.
type secretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
	version   string
}

func (p *secretProviderSM) Access(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secretProviderSM: secretID is empty")
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("secretProviderSM: projectID is empty")
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secretProviderSM: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secretProviderSM: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
