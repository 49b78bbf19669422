package app

import (
	"github.com/vk/stackforge/internal/registry"
	"github.com/vk/stackforge/modules/compute"
	"github.com/vk/stackforge/modules/database"
	"github.com/vk/stackforge/modules/network"
	"github.com/vk/stackforge/modules/queue"
	"github.com/vk/stackforge/modules/storage"
)

// coreModules is the definitive list of all catalog modules that are
// compiled into the stackforge binary.
var coreModules = []registry.Module{
	&network.Module{},
	&queue.Module{},
	&database.Module{},
	&compute.Module{},
	&storage.Module{},
}
