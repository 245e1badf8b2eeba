package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"frontier.rpg/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	eventSchema := compile("event.schema.json")
	cmdSchema := compile("cmd.schema.json")
	syncSchema := compile("sync.schema.json")
	rewardSchema := compile("reward.schema.json")
	resultSchema := compile("result.schema.json")
	marketSchema := compile("market.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "name":"steve",
	  "capabilities":{"max_queue":8},
	  "auth":{"token":"hunter2"}
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "participant_id":"5f2c8b1e-0000-0000-0000-000000000000",
	  "world_params":{"tick_rate_hz":20,"day_ticks":24000,"sync_every_ticks":20},
	  "catalog_digest":"deadbeef",
	  "rewards_digest":"deadbeef"
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var mining any
	_ = json.Unmarshal([]byte(`{
	  "type":"EVENT",
	  "protocol_version":"1.0",
	  "kind":"MINING",
	  "subject":"iron_ore",
	  "category":"ORE"
	}`), &mining)
	validate(eventSchema, mining)

	var movement any
	_ = json.Unmarshal([]byte(`{
	  "type":"EVENT",
	  "protocol_version":"1.0",
	  "kind":"MOVEMENT",
	  "x":12.5,
	  "z":-3.25,
	  "sprinting":true
	}`), &movement)
	validate(eventSchema, movement)

	var cmd any
	_ = json.Unmarshal([]byte(`{
	  "type":"CMD",
	  "protocol_version":"1.0",
	  "id":"c1",
	  "cmd":"BUY",
	  "item":"bread",
	  "quantity":3
	}`), &cmd)
	validate(cmdSchema, cmd)

	var sync any
	_ = json.Unmarshal([]byte(`{
	  "type":"SYNC",
	  "protocol_version":"1.0",
	  "tick":400,
	  "money":112,
	  "level":2,
	  "xp":8,
	  "xp_required":200,
	  "hot_item":"Wheat",
	  "skill_points":1,
	  "skills":[0,1,0,0,0,0]
	}`), &sync)
	validate(syncSchema, sync)

	var reward any
	_ = json.Unmarshal([]byte(`{
	  "type":"REWARD",
	  "protocol_version":"1.0",
	  "kind":"COMBAT_HOSTILE",
	  "xp":15,
	  "money":5,
	  "vanilla_xp":5,
	  "bonus":true,
	  "bonus_skill":"Combat"
	}`), &reward)
	validate(rewardSchema, reward)

	var result any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "protocol_version":"1.0",
	  "cmd_id":"c1",
	  "cmd":"BUY",
	  "accepted":false,
	  "code":"E_NO_FUNDS",
	  "message":"need 45, have 12"
	}`), &result)
	validate(resultSchema, result)

	var market any
	_ = json.Unmarshal([]byte(`{
	  "type":"MARKET",
	  "protocol_version":"1.0",
	  "hot_item":"wheat",
	  "hot_name":"Wheat",
	  "cheap_item":"coal",
	  "cheap_name":"Coal"
	}`), &market)
	validate(marketSchema, market)
}

func TestSchemas_RoundTripOutbound(t *testing.T) {
	// Messages the server actually emits must satisfy their schemas.
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", name))
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	cases := []struct {
		schema string
		msg    any
	}{
		{"sync.schema.json", sampleSync()},
		{"reward.schema.json", sampleReward()},
		{"result.schema.json", sampleResult()},
	}
	for _, c := range cases {
		b, err := json.Marshal(c.msg)
		if err != nil {
			t.Fatalf("marshal for %s: %v", c.schema, err)
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			t.Fatalf("unmarshal for %s: %v", c.schema, err)
		}
		if err := compile(c.schema).Validate(v); err != nil {
			t.Fatalf("%s: %v", c.schema, err)
		}
	}
}

func sampleSync() protocol.SyncMsg {
	return protocol.SyncMsg{
		Type:            protocol.TypeSync,
		ProtocolVersion: protocol.Version,
		Tick:            40,
		Money:           100,
		Level:           1,
		Xp:              0,
		XpRequired:      100,
		HotItem:         "None",
		Skills:          [6]int{},
	}
}

func sampleReward() protocol.RewardMsg {
	return protocol.RewardMsg{
		Type:            protocol.TypeReward,
		ProtocolVersion: protocol.Version,
		Kind:            protocol.RewardLevelUp,
		Xp:              2,
		Money:           100,
	}
}

func sampleResult() protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		CmdID:           "c9",
		Cmd:             protocol.CmdSell,
		Accepted:        true,
		Message:         "sold 4 x Wheat for 32",
		Data:            map[string]string{"proceeds": "32"},
	}
}
