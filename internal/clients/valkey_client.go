package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_PROCESSED_KEY = "threadscope:processed_urls"
	VALKEY_PROCESSED_TTL = 86400
)

// ValkeyClient tracks URLs that were already extracted so repeat runs within a
// day skip them. The whole feature is optional; the pipeline runs without it.
type ValkeyClient struct {
	client valkey.Client
}

func NewValkeyClient(addr, password string) (*ValkeyClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	})
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Connected to valkey successfully")
	return &ValkeyClient{client: client}, nil
}

func (vc *ValkeyClient) Close() {
	vc.client.Close()
}

func (vc *ValkeyClient) MarkProcessed(ctx context.Context, url string) error {
	responses := vc.client.DoMulti(ctx,
		vc.client.B().Sadd().Key(VALKEY_PROCESSED_KEY).Member(url).Build(),
		vc.client.B().Expire().Key(VALKEY_PROCESSED_KEY).Seconds(VALKEY_PROCESSED_TTL).Build(),
	)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (vc *ValkeyClient) IsProcessed(ctx context.Context, url string) bool {
	res := vc.client.Do(ctx, vc.client.B().Sismember().Key(VALKEY_PROCESSED_KEY).Member(url).Build())
	if err := res.Error(); err != nil {
		slog.Warn("[ValkeyClient] Membership check failed",
			slog.String("error", err.Error()))
		return false
	}

	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}
