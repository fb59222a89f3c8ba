package report

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestInstantBoundMatchesBothShapes(t *testing.T) {
	cutoff := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	got := instantBound("created_at", "$lt", cutoff)
	want := bson.M{
		"$or": []bson.M{
			{"created_at": bson.M{"$lt": cutoff}},
			{"created_at": bson.M{"$lt": cutoff.UnixMilli()}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("instantBound = %#v, want %#v", got, want)
	}

	branches := got["$or"].([]bson.M)
	if _, ok := branches[1]["created_at"].(bson.M)["$lt"].(int64); !ok {
		t.Error("legacy branch should carry an epoch-millis bound, got a non-integer")
	}
}
