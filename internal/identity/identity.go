package identity

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Identity is the resolved STS caller identity for the active credentials.
type Identity struct {
	Account string `json:"account"`
	Arn     string `json:"arn"`
	UserID  string `json:"userId"`
}

type Resolver interface {
	Resolve(ctx context.Context) (Identity, error)
}

type ClientFunc func(ctx context.Context, region string) (*sts.Client, string, error)

// STSResolver caches GetCallerIdentity for a TTL so tools annotating results
// with the account do not re-hit STS on every call.
type STSResolver struct {
	client ClientFunc
	ttl    time.Duration

	mu        sync.Mutex
	cached    Identity
	fetchedAt time.Time
}

func NewSTSResolver(client ClientFunc, ttl time.Duration) *STSResolver {
	return &STSResolver{client: client, ttl: ttl}
}

func (r *STSResolver) Resolve(ctx context.Context) (Identity, error) {
	r.mu.Lock()
	if !r.fetchedAt.IsZero() && (r.ttl <= 0 || time.Since(r.fetchedAt) < r.ttl) {
		cached := r.cached
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	client, _, err := r.client(ctx, "")
	if err != nil {
		return Identity{}, err
	}
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, err
	}
	id := Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}
	r.mu.Lock()
	r.cached = id
	r.fetchedAt = time.Now()
	r.mu.Unlock()
	return id, nil
}
