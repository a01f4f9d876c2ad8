// Package redis holds the shared store behind the request gate's
// per-plan rate limit when several replicas serve the API.
//
//	comp := redis.NewComponent(cfg.Redis, log)
//	app.RegisterComponent(comp)
//	// once started
//	limiter := gate.NewRedisLimiter(comp.Client())
//
// Keys live under Config.KeyPrefix; Client.Hit maintains fixed-window
// counters there.
package redis
