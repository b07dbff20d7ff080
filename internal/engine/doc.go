// Package engine composes the console chat backend: the message store, the
// session context, the per-category notification fan-outs, and the bot
// callback registry.
//
// # Overview
//
// The Engine is the facade a terminal UI or a bot integration talks to:
//
//	eng := engine.New(cfg, logger)
//	eng.WatchChat(func(change engine.ChatChange) { ... })
//	eng.OnEvent(func(ctx context.Context, ev model.MessageEvent) error { ... })
//
//	res := eng.Send(engine.SendRequest{Content: model.PlainText("hi")})
//	history := eng.History(nil)
//
// Every state-changing operation resolves its target channel through the
// session (so the direct sentinel never reaches storage), mutates the
// store, and publishes a typed notification to the observers of the
// affected category: chat, user, channel, bot, or mode.
//
// # Out-of-band alerts
//
// Send and Receive report an alert flag when a message lands in the
// session owner's private channel while the owner is viewing another
// channel in user-mode. The UI turns that flag into a toast; the engine
// only computes it.
//
// # Bot callbacks
//
// PostEvent fans a message event out to every registered bot callback
// concurrently, waits for all of them, and returns their failures joined
// into one error. One failing callback never blocks its siblings.
package engine
