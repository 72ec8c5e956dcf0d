/*
go-corrtrack provides a correlation based video object tracker for the ground
control station of a stabilised camera gimbal.

Given a stream of grayscale video frames and an initial point of interest the
Tracker continuously estimates the screen position of the tracked object.  It
keeps an adaptively blended pattern of the object with a weighting mask that
suppresses background pixels, predicts the next position with a per axis
recursive filter, and survives short occlusions by switching into a lost mode
where it keeps searching for the object.

The Tracker is driven through a small property and command protocol
(SetProperty, GetProperty, ExecuteCommand) plus ProcessFrame for every new
frame.  All calls are blocking and serialised by a single lock so the Tracker
can be driven from the video pipeline goroutine and queried from the UI.

See the adapter package for binding the Tracker to a GoCV video pipeline and
the example subdirectory for a complete program.
*/
package corrtrack
