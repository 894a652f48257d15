package app

import (
	"context"

	"github.com/phenrril/pcbuilder/internal/domain"
	"github.com/phenrril/pcbuilder/internal/usecase"
)

type seedPart struct {
	cat     domain.Category
	name    string
	brand   string
	price   float64
	wattage float64
	compat  domain.Compatibility
}

var seedCatalog = []seedPart{
	{domain.CategoryCPU, "Ryzen 5 7600", "AMD", 229, 65, domain.Compatibility{Socket: "AM5"}},
	{domain.CategoryCPU, "Ryzen 7 7800X3D", "AMD", 449, 120, domain.Compatibility{Socket: "AM5"}},
	{domain.CategoryCPU, "Core i5-13600K", "Intel", 319, 181, domain.Compatibility{Socket: "LGA1700"}},
	{domain.CategoryCPU, "Core i7-14700K", "Intel", 409, 253, domain.Compatibility{Socket: "LGA1700"}},

	{domain.CategoryMotherboard, "B650 Tomahawk WiFi", "MSI", 219, 45, domain.Compatibility{Socket: "AM5", MemoryType: "DDR5"}},
	{domain.CategoryMotherboard, "X670E Aorus Master", "Gigabyte", 469, 60, domain.Compatibility{Socket: "AM5", MemoryType: "DDR5"}},
	{domain.CategoryMotherboard, "PRIME B760M-A D4", "ASUS", 139, 40, domain.Compatibility{Socket: "LGA1700", MemoryType: "DDR4"}},
	{domain.CategoryMotherboard, "Z790 Steel Legend", "ASRock", 249, 50, domain.Compatibility{Socket: "LGA1700", MemoryType: "DDR5"}},

	{domain.CategoryRAM, "Vengeance 16GB DDR5-6000", "Corsair", 69, 5, domain.Compatibility{MemoryType: "DDR5"}},
	{domain.CategoryRAM, "Trident Z5 32GB DDR5-6400", "G.Skill", 129, 8, domain.Compatibility{MemoryType: "DDR5"}},
	{domain.CategoryRAM, "Fury Beast 16GB DDR4-3200", "Kingston", 39, 4, domain.Compatibility{MemoryType: "DDR4"}},

	{domain.CategoryGPU, "GeForce RTX 4070 Super", "NVIDIA", 599, 220, domain.Compatibility{LengthMM: 267}},
	{domain.CategoryGPU, "GeForce RTX 4090", "NVIDIA", 1599, 450, domain.Compatibility{LengthMM: 336}},
	{domain.CategoryGPU, "Radeon RX 7800 XT", "AMD", 499, 263, domain.Compatibility{LengthMM: 320}},

	{domain.CategoryStorage, "990 Pro 2TB", "Samsung", 169, 7, domain.Compatibility{}},
	{domain.CategoryStorage, "SN770 1TB", "WD", 69, 5, domain.Compatibility{}},
	{domain.CategoryStorage, "BarraCuda 4TB", "Seagate", 89, 8, domain.Compatibility{}},

	{domain.CategoryPSU, "RM750e", "Corsair", 99, 0, domain.Compatibility{WattageCapacity: 750}},
	{domain.CategoryPSU, "Focus GX-1000", "Seasonic", 179, 0, domain.Compatibility{WattageCapacity: 1000}},
	{domain.CategoryPSU, "CV550", "Corsair", 59, 0, domain.Compatibility{WattageCapacity: 550}},

	{domain.CategoryCase, "H5 Flow", "NZXT", 94, 0, domain.Compatibility{MaxGPULengthMM: 365}},
	{domain.CategoryCase, "Meshify 2 Compact", "Fractal Design", 119, 0, domain.Compatibility{MaxGPULengthMM: 360}},
	{domain.CategoryCase, "NR200P", "Cooler Master", 99, 0, domain.Compatibility{MaxGPULengthMM: 330}},

	{domain.CategoryCooling, "Peerless Assassin 120 SE", "Thermalright", 35, 4, domain.Compatibility{}},
	{domain.CategoryCooling, "Kraken 240", "NZXT", 139, 8, domain.Compatibility{}},

	{domain.CategoryKeyboard, "K70 RGB Pro", "Corsair", 159, 3, domain.Compatibility{}},
	{domain.CategoryKeyboard, "G915 TKL", "Logitech", 179, 2, domain.Compatibility{}},
	{domain.CategoryMouse, "G Pro X Superlight 2", "Logitech", 159, 1, domain.Compatibility{}},
	{domain.CategoryMouse, "DeathAdder V3", "Razer", 89, 1, domain.Compatibility{}},
	{domain.CategoryMonitor, "27GP850-B", "LG", 349, 45, domain.Compatibility{}},
	{domain.CategoryMonitor, "Odyssey G7 32", "Samsung", 549, 60, domain.Compatibility{}},
}

func seedComponents(ctx context.Context, uc *usecase.ComponentUC) error {
	for _, p := range seedCatalog {
		c := &domain.Component{
			Name:          p.name,
			Brand:         p.brand,
			Category:      p.cat,
			Price:         p.price,
			Wattage:       p.wattage,
			Compatibility: p.compat,
			Stock:         10,
			Active:        true,
		}
		if err := uc.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
