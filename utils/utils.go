// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils generates point sets on the unit sphere used to build
// sphere triangulations.
package utils

import (
	"math"
	"math/rand"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GenerateRandomPoints returns cnt points distributed uniformly by area on
// the unit sphere. The seed makes the result reproducible.
func GenerateRandomPoints(cnt int, seed int64) s2.PointVector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make(s2.PointVector, cnt)

	for i := range cnt {
		z := random.Float64()*2 - 1
		points[i] = s2.PointFromLatLng(s2.LatLng{
			Lat: s1.Angle(math.Asin(z)),
			Lng: s1.Angle((random.Float64()*2 - 1) * math.Pi),
		})
	}

	return points
}

// GenerateFibonacciPoints returns cnt points on the golden-angle spiral.
// Neighbouring points are nearly equidistant, so the hull triangulation has
// valences close to 6.
func GenerateFibonacciPoints(cnt int) s2.PointVector {
	golden := math.Pi * (3 - math.Sqrt(5))
	points := make(s2.PointVector, cnt)

	for i := range cnt {
		z := 1 - (2*float64(i)+1)/float64(cnt)
		points[i] = s2.PointFromLatLng(s2.LatLng{
			Lat: s1.Angle(math.Asin(z)),
			Lng: s1.Angle(math.Remainder(golden*float64(i), 2*math.Pi)),
		})
	}

	return points
}
