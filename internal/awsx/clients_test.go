package awsx

import (
	"context"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
)

type fakeClient struct {
	region string
}

func TestClientCacheReusesClients(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	builds := 0
	cache := NewClientCache(Settings{}, func(cfg sdkaws.Config) *fakeClient {
		builds++
		return &fakeClient{region: cfg.Region}
	})
	first, region, err := cache.Get(context.Background(), "eu-west-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if region != "eu-west-1" || first.region != "eu-west-1" {
		t.Fatalf("unexpected region: %q", region)
	}
	second, _, err := cache.Get(context.Background(), "eu-west-1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached client to be reused")
	}
	if builds != 1 {
		t.Fatalf("expected one build, got %d", builds)
	}

	_, _, err = cache.Get(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("get other region: %v", err)
	}
	if builds != 2 {
		t.Fatalf("expected per-region client, got %d builds", builds)
	}
}

func TestClientCacheKey(t *testing.T) {
	cache := NewClientCache(Settings{Profile: "dev"}, func(cfg sdkaws.Config) *fakeClient {
		return &fakeClient{}
	})
	if key := cache.key("us-east-1"); key != "dev|us-east-1" {
		t.Fatalf("unexpected key: %q", key)
	}
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	bare := NewClientCache(Settings{}, func(cfg sdkaws.Config) *fakeClient {
		return &fakeClient{}
	})
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	if key := bare.key(""); key != "default" {
		t.Fatalf("unexpected key: %q", key)
	}
}
