package awssts

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"infracopilot/internal/identity"
	"infracopilot/internal/mcp"
	"infracopilot/internal/redact"
)

const callerIdentityXML = `<GetCallerIdentityResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <GetCallerIdentityResult>
    <Arn>arn:aws:iam::123456789012:user/demo</Arn>
    <Account>123456789012</Account>
    <UserId>AIDAEXAMPLE</UserId>
  </GetCallerIdentityResult>
</GetCallerIdentityResponse>`

func TestGetCallerIdentityDirectClient(t *testing.T) {
	client := newSTSTestClient(t, callerIdentityXML)
	svc := &Service{
		ctx: mcp.ToolsetContext{Redactor: redact.New()},
		stsClient: func(context.Context, string) (*sts.Client, string, error) {
			return client, "us-east-1", nil
		},
	}
	result, err := svc.handleGetCallerIdentity(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("get caller identity: %v", err)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result: %#v", result.Data)
	}
	if data["account"] != "123456789012" {
		t.Fatalf("unexpected account: %v", data["account"])
	}
}

func TestGetCallerIdentityUsesResolver(t *testing.T) {
	client := newSTSTestClient(t, callerIdentityXML)
	resolver := identity.NewSTSResolver(func(context.Context, string) (*sts.Client, string, error) {
		return client, "us-east-1", nil
	}, time.Minute)
	svc := &Service{
		ctx: mcp.ToolsetContext{Redactor: redact.New(), Identity: resolver},
		stsClient: func(context.Context, string) (*sts.Client, string, error) {
			t.Fatalf("direct client should not be used when resolver is set")
			return nil, "", nil
		},
	}
	result, err := svc.handleGetCallerIdentity(context.Background(), mcp.ToolRequest{Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("get caller identity: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["arn"] != "arn:aws:iam::123456789012:user/demo" {
		t.Fatalf("unexpected arn: %v", data["arn"])
	}
}

func TestToolSpecs(t *testing.T) {
	specs := ToolSpecs(mcp.ToolsetContext{}, "sts", nil)
	if len(specs) != 1 {
		t.Fatalf("unexpected spec count: %d", len(specs))
	}
	if specs[0].Name != "aws.sts.get_caller_identity" || specs[0].Safety != mcp.SafetyReadOnly {
		t.Fatalf("unexpected spec: %#v", specs[0])
	}
}

func newSTSTestClient(t *testing.T, response string) *sts.Client {
	t.Helper()
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/xml"}},
				Body:       io.NopCloser(strings.NewReader(response)),
			}, nil
		})},
	}
	cfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: "https://sts.test", SigningRegion: region, HostnameImmutable: true}, nil
		},
	)
	return sts.NewFromConfig(cfg)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
