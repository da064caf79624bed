package messagelog

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordGeneratesID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO message_logs")).
		WithArgs(pgxmock.AnyArg(), ChannelChat, DirectionInbound, "hello",
			map[string]any(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPgRepository(mock)
	err = repo.Record(context.Background(), Entry{
		Channel:   ChannelChat,
		Direction: DirectionInbound,
		Content:   "hello",
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordKeepsExplicitID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	ctxMap := map[string]any{"call_sid": "CA123"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO message_logs")).
		WithArgs(id, ChannelCall, DirectionOutbound, "call placed", ctxMap).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPgRepository(mock)
	err = repo.Record(context.Background(), Entry{
		ID:        id,
		Channel:   ChannelCall,
		Direction: DirectionOutbound,
		Content:   "call placed",
		Context:   ctxMap,
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
