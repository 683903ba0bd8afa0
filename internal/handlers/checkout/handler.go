package checkout

import (
	checkoutsvc "velora_back_end/internal/checkout"
)

// Svc est le service du tunnel de commande, câblé au démarrage par les
// routes sur les stores ScyllaDB/Redis.
var Svc *checkoutsvc.Service

func Init(s *checkoutsvc.Service) {
	Svc = s
}
