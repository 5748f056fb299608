// internal/game/events.go
package game

// EventType enumerates every notification the engine can emit. Events with a
// "private_" prefix are only ever sent to a single actor.
type EventType string

const (
	EventRoomCreated     EventType = "room_created"
	EventStartAck        EventType = "start_ack"
	EventRoomsList       EventType = "rooms_list"
	EventError           EventType = "error"
	EventChat            EventType = "chat"
	EventRoomRoster      EventType = "room_roster"
	EventDealStarted     EventType = "deal_started"
	EventPrivateHand     EventType = "private_hand_dealt"
	EventBidTurn         EventType = "bid_turn"
	EventBidUpdate       EventType = "bid_update"
	EventBiddingComplete EventType = "bidding_complete"
	EventPrivateCall     EventType = "private_call_prompt"
	EventCallWait        EventType = "call_wait"
	EventCallMade        EventType = "call_made"
	EventPrivatePartner  EventType = "private_partner_notice"
	EventPartnerRevealed EventType = "partner_revealed"
	EventPlayTurn        EventType = "play_turn"
	EventCardPlayed      EventType = "card_played"
	EventTrickComplete   EventType = "trick_complete"
	EventRoundFinished   EventType = "round_finished"
)

// Event is the unit of outbound notification. Payload keys are documented on
// the emitting call sites; clients switch on Type.
type Event struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
