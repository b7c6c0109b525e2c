package database

import (
	"context"
	"fmt"
)

// Stats holds row counts per table.
type Stats struct {
	Users     int64
	Sections  int64
	Posts     int64
	Comments  int64
	Documents int64
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&User{}, &s.Users},
		{&Section{}, &s.Sections},
		{&Post{}, &s.Posts},
		{&Comment{}, &s.Comments},
		{&Document{}, &s.Documents},
	}
	for _, cnt := range counts {
		if err := c.db.WithContext(ctx).Model(cnt.model).Count(cnt.dst).Error; err != nil {
			return nil, wrapErr(fmt.Sprintf("count %T", cnt.model), err)
		}
	}
	return &s, nil
}
