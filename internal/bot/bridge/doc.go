// Package bridge connects to an external Minecraft bot engine over WebSocket
// and exposes it as a bot.Session.
//
// # Protocol
//
// Every frame is a JSON text message. Commands carry a fresh uuid and the
// engine echoes it in the response:
//
//	→ {"id":"…","type":"command","action":"goto","params":{"x":1,"y":64,"z":1,"range":1}}
//	← {"id":"…","type":"response","success":true,"data":{}}
//
// A failed command answers with success=false, a message, and optionally a
// code. The code "unsupported_version" means the engine has no block
// metadata for the requested game version.
//
// The engine also pushes events without an id:
//
//	← {"type":"event","event":"chat","data":{"username":"Alex","message":"hi"}}
//
// spawn completes the join, chat feeds the message history, and kicked or
// end terminate the session. An error event before spawn fails the join and
// is only logged afterwards.
//
// # Lifecycle
//
// Connect dials, sends connect with the server address and username, and
// waits for spawn. After that the session lives until the engine connection
// drops or Close is called; Done is closed in both cases and any waiting call
// fails with bot.ErrDisconnected. Calls carry no deadline of their own and
// rely on the caller's context.
package bridge
