package usecase

import (
	"github.com/google/uuid"

	"github.com/phenrril/pcbuilder/internal/domain"
)

type fixture struct {
	am5CPU, lgaCPU, board, ddr5, ddr4, gpu, psu, retired domain.Component
}

func newFixture() fixture {
	mk := func(cat domain.Category, name, brand string, price, watts float64, compat domain.Compatibility) domain.Component {
		return domain.Component{ID: uuid.New(), Name: name, Brand: brand, Category: cat, Price: price, Wattage: watts, Compatibility: compat, Active: true}
	}
	f := fixture{
		am5CPU:  mk(domain.CategoryCPU, "Ryzen 7 7700X", "AMD", 299, 105, domain.Compatibility{Socket: "AM5"}),
		lgaCPU:  mk(domain.CategoryCPU, "Core i5-13600K", "Intel", 279, 125, domain.Compatibility{Socket: "LGA1700"}),
		board:   mk(domain.CategoryMotherboard, "B650 Tomahawk", "MSI", 189, 40, domain.Compatibility{Socket: "AM5", MemoryType: "DDR5"}),
		ddr5:    mk(domain.CategoryRAM, "Vengeance 16GB DDR5", "Corsair", 80, 5, domain.Compatibility{MemoryType: "DDR5"}),
		ddr4:    mk(domain.CategoryRAM, "Fury 16GB DDR4", "Kingston", 45, 4, domain.Compatibility{MemoryType: "DDR4"}),
		gpu:     mk(domain.CategoryGPU, "RTX 4070", "NVIDIA", 549, 200, domain.Compatibility{LengthMM: 285}),
		psu:     mk(domain.CategoryPSU, "RM750e", "Corsair", 99, 0, domain.Compatibility{WattageCapacity: 750}),
		retired: mk(domain.CategoryCPU, "Ryzen 5 1600", "AMD", 60, 65, domain.Compatibility{Socket: "AM4"}),
	}
	f.retired.Active = false
	return f
}

func (f fixture) all() []domain.Component {
	return []domain.Component{f.am5CPU, f.lgaCPU, f.board, f.ddr5, f.ddr4, f.gpu, f.psu, f.retired}
}
