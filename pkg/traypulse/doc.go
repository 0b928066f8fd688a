// Package traypulse provides an embeddable cross-platform system tray
// monitor: a tray icon with live CPU, memory and disk bars plus an
// optional detailed metrics window.
//
// The two GUI surfaces compete for the process's primary thread. The
// coordinator resolves this with a thread policy detected from the
// platform: on most desktops the tray toolkit tolerates a worker
// thread, so the primary thread stays parked in a supervising loop
// ready to run the profile window's render loop in-place. On desktops
// whose tray toolkit itself needs the primary thread (macOS, KDE and
// other Qt-based environments), the tray takes the primary thread and
// profile requests are declined.
//
// Basic usage:
//
//	app, err := traypulse.New(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := app.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Run must be called from the main goroutine. Lifecycle events, health
// checks and expvar metrics are available for embedding applications;
// see Options, App.Health and Metrics.
package traypulse
