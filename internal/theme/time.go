package theme

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control which season auto mode sees.
var timeNow = time.Now
