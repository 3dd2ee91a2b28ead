package types

// Client -> Server
// confirm_settings:
//   max_rounds: number (positive; locks the room, first confirm wins)
//
// send_message:
//   text: string (non-blank; only accepted on the sender's turn)
//
// typing (transient):
//   is_typing: boolean // rate-limited sender-side, never persisted

// Server -> Client
// snapshot:
//   version: number
//   snapshot:
//     room_id: string
//     topic: string
//     max_rounds: number
//     settings_locked: boolean
//     phase: "awaiting_settings" | "in_progress" | "complete"
//     role: "A" | "B"   // the receiver's own seat
//     messages: Message[] // full persisted history, insertion order
//
// settings_locked:
//   version: number
//   max_rounds: number
//
// message_created:
//   version: number
//   message: { id, user_id, name, role, text, created_at }
//   // may duplicate a snapshot entry after reconnect; merge by id
//
// typing_status:
//   typing: { user_id, is_typing }
//   // treat is_typing=true as expired after ~3s without a follow-up false
//
// final_judgement:
//   judgment: { winner, score, feedback, topic, debaterA_name, debaterB_name }
//   // redundant deliveries are safe to ignore
//
// judging_failed:
//   code: "judging_unavailable" // terminal; no retry
//
// error (sender only):
//   code: "turn_violation" | "empty_content" | "settings_locked" |
//         "awaiting_settings" | "debate_complete" | "room_full" |
//         "invalid_rounds" | "no_role" | "send_failed" | "bad_json" |
//         "unknown_type"
