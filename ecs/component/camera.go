package component

import "github.com/milk9111/ratrun/camera"

type Camera struct {
	Camera     *camera.Camera
	TargetName string
}

var CameraComponent = NewComponent[Camera]()
