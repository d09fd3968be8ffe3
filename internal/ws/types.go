package ws

const (
	// client - server
	MsgClaimBox = "claim_box"

	// server - client
	MsgReady      = "ready"
	MsgScoreboard = "scoreboard"
	MsgLootBox    = "loot_box"
	MsgClaimAck   = "claim_ack"
	MsgError      = "error"
)
