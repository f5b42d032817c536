/*
Copyright © 2023 the biogas authors.
This file is part of biogas.

biogas is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

biogas is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with biogas.  If not, see <http://www.gnu.org/licenses/>.
*/

package biogas

import "gonum.org/v1/gonum/floats"

// Convolve returns the first n values of the discrete convolution of feed
// with kernel: out[t] = Σ_d feed[d]·kernel[t-d]. Each day's feed is spread
// forward over the length of the kernel and contributions beyond day n-1
// are dropped.
func Convolve(feed, kernel []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	for d, f := range feed {
		if d >= n {
			break
		}
		if f == 0 {
			continue
		}
		m := min(len(kernel), n-d)
		floats.AddScaled(out[d:d+m], f, kernel[:m])
	}
	return out
}

// FeedSchedule returns a series of length horizon that is 1 on the days in
// [start, end) and 0 elsewhere.
func FeedSchedule(start, end, horizon int) []float64 {
	f := make([]float64, max(horizon, 0))
	start = max(start, 0)
	end = min(end, horizon)
	for d := start; d < end; d++ {
		f[d] = 1
	}
	return f
}

// Sum returns the element-wise sum of the given series, which must all have
// length n.
func Sum(n int, series ...[]float64) []float64 {
	out := make([]float64, n)
	for _, s := range series {
		floats.Add(out, s)
	}
	return out
}
