package repository

import (
	"encoding/base64"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// keyset pages a collection on (created_at, _id). The feed reads newest
// first, comment threads read oldest first.
type keyset struct {
	ascending bool
}

var (
	newestFirst = keyset{}
	oldestFirst = keyset{ascending: true}
)

// pageToken is the opaque next_cursor handed to clients. It names the last
// item of the previous page.
type pageToken struct {
	At int64  `json:"at"`
	ID string `json:"id"`
}

func encodePageToken(at time.Time, id bson.ObjectID) string {
	b, _ := json.Marshal(pageToken{At: at.UnixMilli(), ID: id.Hex()})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodePageToken(s string) (time.Time, bson.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, bson.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var tok pageToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return time.Time{}, bson.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	oid, err := bson.ObjectIDFromHex(tok.ID)
	if err != nil {
		return time.Time{}, bson.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return time.UnixMilli(tok.At).UTC(), oid, nil
}

// after narrows filter to the items that follow token. An empty token is the
// first page.
func (k keyset) after(filter bson.M, token string) error {
	if token == "" {
		return nil
	}
	at, id, err := decodePageToken(token)
	if err != nil {
		return err
	}
	op := "$lt"
	if k.ascending {
		op = "$gt"
	}
	filter["$or"] = []bson.M{
		{"created_at": bson.M{op: at}},
		{"created_at": at, "_id": bson.M{op: id}},
	}
	return nil
}

// find sorts in page order and reads one item past limit to detect more.
func (k keyset) find(limit int64) *options.FindOptionsBuilder {
	dir := -1
	if k.ascending {
		dir = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}}).
		SetLimit(limit + 1)
}

// cut drops the lookahead item and returns the token of the next page, nil
// on the last page.
func cut[T any](all []T, limit int64, key func(T) (time.Time, bson.ObjectID)) ([]T, *string) {
	if int64(len(all)) <= limit {
		return all, nil
	}
	items := all[:limit]
	at, id := key(items[len(items)-1])
	next := encodePageToken(at, id)
	return items, &next
}
