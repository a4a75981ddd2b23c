// Package consent gates agent-initiated UI actions behind explicit user
// confirmation.
//
// A caller asks for approval of an action (navigate, scroll, download,
// external_link or any other type) and receives a deferred result. The
// action is shown on a confirmation surface; the user approves or cancels
// it, or it times out, and exactly one outcome reaches the caller.
//
//	srv := consent.New()
//	_ = srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//	result, _ := srv.RequestApproval(ctx, "navigate", map[string]interface{}{"page": "portfolio"}, "You asked to see my work", nil)
//	decision, err := result.Wait(ctx)
//
// The registry lives in service/approval/memory; surfaces live under
// service/display.
package consent
