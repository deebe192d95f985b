package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestInsertedCount(t *testing.T) {
	dup := mongo.WriteError{Code: duplicateKeyCode, Message: "E11000 duplicate key"}
	other := mongo.WriteError{Code: 121, Message: "document failed validation"}

	tests := []struct {
		name    string
		err     error
		want    int
		wantErr bool
	}{
		{name: "no error", err: nil, want: 5},
		{
			name: "duplicates only",
			err: mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{
				{WriteError: dup}, {WriteError: dup},
			}},
			want: 3,
		},
		{
			name: "other write error",
			err: mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{
				{WriteError: dup}, {WriteError: other},
			}},
			wantErr: true,
		},
		{
			name: "write concern error",
			err: mongo.BulkWriteException{
				WriteConcernError: &mongo.WriteConcernError{Code: 64},
			},
			wantErr: true,
		},
		{name: "network error", err: errors.New("connection reset"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := insertedCount(5, tc.err)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("insertedCount = %d, want %d", got, tc.want)
			}
		})
	}
}
