package cache

import (
	"context"
	"fmt"
	"time"
)

// User rows are never cached: the password hash is stripped by JSON
// serialization and authentication reads the row on every login anyway.
const (
	postKeyPrefix  = "post:%d"
	groupKeyPrefix = "group:%s"
)

const (
	PostTTL  = 15 * time.Minute
	GroupTTL = 30 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(groupKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}
