// Package swww shells out to the swww wallpaper daemon: applying images per
// output, checking daemon liveness, and discovering connected outputs.
package swww
