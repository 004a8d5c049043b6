package registry

import (
	_ "github.com/Alia5/PSXPAD/gpio/gpiochip" // Register gpiochip transport backend
	_ "github.com/Alia5/PSXPAD/padsim"        // Register sim transport backend
)
