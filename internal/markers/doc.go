// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

/*
Package markers turns facilities and data centers into map markers.

Everything here is a pure function of its inputs: no store access, no
shared mutable state. A Projector is built once from configuration and can
be used from any number of goroutines.

Pipeline for the facility layer:

 1. Validate coordinates. Non-finite or out-of-range points are skipped and
    reported in Layer.Skipped; the rest of the layer still renders.
 2. Style: radius from RadiusScale (log scale over capacity), color and
    label from the Palette.
 3. Draw order: ascending (fuel priority, capacity desc, id), so dominant
    fuels paint last and small markers stay visible above large ones.
 4. Clustering at the requested zoom (see Cluster).

Data centers follow steps 1 to 3 with a fixed purple diamond and are never
clustered.
*/
package markers
