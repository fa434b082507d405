package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	msg := &IncomingMessage{
		Value: []byte(`{"record_type": "recipe", "data": {"Recipe ID": "r1", "Title": "Paella"}}`),
	}

	err := msg.ParseRecord()
	require.NoError(t, err)
	require.NotNil(t, msg.Record)

	assert.Equal(t, RecordTypeRecipe, msg.Record.RecordType)
	assert.Equal(t, "r1", msg.Record.Data["Recipe ID"])
}

func TestParseRecord_InvalidJSON(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`not json`)}

	err := msg.ParseRecord()
	require.Error(t, err)
	assert.Nil(t, msg.Record)
}

func TestGetRecordType_HeaderFallback(t *testing.T) {
	msg := &IncomingMessage{
		Headers: map[string]string{"record_type": RecordTypeRelation},
		Value:   []byte(`{"data": {"Recipe ID": "r1", "Entity ID": "e1"}}`),
	}

	require.NoError(t, msg.ParseRecord())
	assert.Equal(t, RecordTypeRelation, msg.GetRecordType())
}

func TestGetRecordType_BodyWins(t *testing.T) {
	msg := &IncomingMessage{
		Headers: map[string]string{"record_type": RecordTypeRelation},
		Value:   []byte(`{"record_type": "ingredient", "data": {}}`),
	}

	require.NoError(t, msg.ParseRecord())
	assert.Equal(t, RecordTypeIngredient, msg.GetRecordType())
}

func TestGetData(t *testing.T) {
	msg := &IncomingMessage{
		Value: []byte(`{"record_type": "ingredient", "data": {"Entity ID": "e1", "Category": "Vegetable"}}`),
	}
	require.NoError(t, msg.ParseRecord())

	var data map[string]any
	require.NoError(t, json.Unmarshal(msg.GetData(), &data))
	assert.Equal(t, "e1", data["Entity ID"])
	assert.Equal(t, "Vegetable", data["Category"])
}

func TestGetData_Unparsed(t *testing.T) {
	raw := []byte(`{"Entity ID": "e1"}`)
	msg := &IncomingMessage{Value: raw}

	assert.Equal(t, json.RawMessage(raw), msg.GetData())
}
