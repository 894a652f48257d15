package domain

import "github.com/google/uuid"

func part(cat Category, name string, price, watts float64) Component {
	return Component{ID: uuid.New(), Name: name, Category: cat, Price: price, Wattage: watts, Active: true}
}

func withCompat(c Component, compat Compatibility) Component {
	c.Compatibility = compat
	return c
}
